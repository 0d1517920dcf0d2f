package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUploadHidesReason(t *testing.T) {
	err := NewUpload(CodeFileTooLarge, "body exceeds 10485760 bytes")

	assert.Equal(t, "Bad Request", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.Status())
	assert.Equal(t, CodeFileTooLarge, err.Code)
	assert.Equal(t, "body exceeds 10485760 bytes", err.Details["reason"])
}

func TestNewValidationKeepsWarningsInOrder(t *testing.T) {
	err := NewValidation([]string{"a", "b"})

	assert.Equal(t, []string{"a", "b"}, err.Warnings())
	assert.Equal(t, http.StatusOK, err.Status())
	assert.True(t, IsType(err, ErrorTypeValidation))
}

func TestNewConversionWrapsCause(t *testing.T) {
	cause := errors.New("png: invalid format")
	err := NewConversion(cause)

	assert.Equal(t, "ICO conversion failed: png: invalid format", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsTypeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("desktop: %w", NewIO("read", fs.ErrNotExist))

	require.True(t, IsType(err, ErrorTypeIO))
	assert.False(t, IsType(err, ErrorTypeUpload))
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, CodeReadFailed, FromError(err).Code)
}

func TestNewIOWriteCode(t *testing.T) {
	assert.Equal(t, CodeWriteFailed, NewIO("write", fs.ErrPermission).Code)
}

func TestFromErrorPlain(t *testing.T) {
	assert.Nil(t, FromError(nil))

	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrorTypeUnknown, appErr.Type)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status())
}

func TestErrorRecover(t *testing.T) {
	var err error
	func() {
		defer func() { err = ErrorRecover(recover()) }()
		panic("kaboom")
	}()

	require.Error(t, err)
	assert.True(t, IsType(err, ErrorTypeInternal))
	assert.Contains(t, err.Error(), "kaboom")
}

func TestErrorFormatter(t *testing.T) {
	f := NewErrorFormatter(false, true)
	out := f.Format(NewConversion(errors.New("bad crc")))

	assert.Contains(t, out, "[conversion]")
	assert.Contains(t, out, "code="+CodeConversionFailed)
	assert.Contains(t, out, "caused_by: bad crc")
}
