package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType represents the category of a failure in the conversion flow
type ErrorType string

const (
	// Upload errors: malformed, missing or oversized multipart payloads
	ErrorTypeUpload ErrorType = "upload"

	// Validation errors: one or more image rules were violated
	ErrorTypeValidation ErrorType = "validation"

	// Conversion errors: decode, resize or encode failed
	ErrorTypeConversion ErrorType = "conversion"

	// IO errors: reading or writing files
	ErrorTypeIO ErrorType = "io"

	ErrorTypeCancelled ErrorType = "cancelled"
	ErrorTypeInternal  ErrorType = "internal"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error codes for specific scenarios
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeMissingFile      = "MISSING_FILE"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeConversionFailed = "CONVERSION_FAILED"
	CodeReadFailed       = "READ_FAILED"
	CodeWriteFailed      = "WRITE_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	InnerError error                  `json:"-"`
	Stack      []string               `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.InnerError != nil {
		return e.InnerError.Error()
	}
	return string(e.Type)
}

// Unwrap returns the inner error
func (e *AppError) Unwrap() error {
	return e.InnerError
}

// WithMessage adds a message to the error
func (e *AppError) WithMessage(msg string) *AppError {
	e.Message = msg
	return e
}

// WithCode adds a code to the error
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithHTTPStatus sets the HTTP status code
func (e *AppError) WithHTTPStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}

// WithInnerError sets the inner error
func (e *AppError) WithInnerError(err error) *AppError {
	e.InnerError = err
	return e
}

// WithStack captures the call stack
func (e *AppError) WithStack() *AppError {
	e.Stack = captureStack(3)
	return e
}

// Is reports whether target is an AppError of the same type
func (e *AppError) Is(target error) bool {
	if targetApp, ok := target.(*AppError); ok {
		return e.Type == targetApp.Type
	}
	return false
}

// Status returns the HTTP status, falling back to 500
func (e *AppError) Status() int {
	if e.HTTPStatus > 0 {
		return e.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Warnings returns the validation warnings attached to the error, if any
func (e *AppError) Warnings() []string {
	if e.Details == nil {
		return nil
	}
	w, _ := e.Details["warnings"].([]string)
	return w
}

// New creates a new AppError
func New(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    string(errType),
	}
}

// FromError converts a standard error to AppError
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return &AppError{
		Type:       ErrorTypeUnknown,
		Message:    err.Error(),
		InnerError: err,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) *AppError {
	return FromError(err).WithMessage(message)
}

// WrapWithType wraps an error with a specific type
func WrapWithType(err error, errType ErrorType, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		InnerError: err,
		Code:       string(errType),
	}
}

// IsType reports whether err is, or wraps, an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Type == errType
}

// NewUpload reports a rejected multipart payload. The message shown to the
// client is always the generic "Bad Request"; reason is kept for logs.
func NewUpload(code, reason string) *AppError {
	return New(ErrorTypeUpload, "Bad Request").
		WithCode(code).
		WithDetail("reason", reason).
		WithHTTPStatus(http.StatusBadRequest)
}

// NewValidation carries every warning produced for one image
func NewValidation(warnings []string) *AppError {
	return New(ErrorTypeValidation, strings.Join(warnings, "; ")).
		WithCode(CodeValidationFailed).
		WithDetail("warnings", warnings).
		WithHTTPStatus(http.StatusOK)
}

// NewConversion wraps a decode/resize/encode failure
func NewConversion(err error) *AppError {
	return WrapWithType(err, ErrorTypeConversion, fmt.Sprintf("ICO conversion failed: %v", err)).
		WithCode(CodeConversionFailed).
		WithHTTPStatus(http.StatusOK)
}

// NewIO wraps a filesystem failure for the named operation
func NewIO(op string, err error) *AppError {
	code := CodeReadFailed
	if op == "write" || op == "save" {
		code = CodeWriteFailed
	}
	return WrapWithType(err, ErrorTypeIO, fmt.Sprintf("failed to %s file: %v", op, err)).
		WithCode(code).
		WithDetail("op", op).
		WithHTTPStatus(http.StatusInternalServerError)
}

func NewCancelled(err error) *AppError {
	return WrapWithType(err, ErrorTypeCancelled, "operation cancelled").
		WithHTTPStatus(http.StatusServiceUnavailable)
}

func NewInternal(message string) *AppError {
	return New(ErrorTypeInternal, message).
		WithCode(CodeInternalError).
		WithHTTPStatus(http.StatusInternalServerError)
}

// ErrorFormatter formats errors for log lines
type ErrorFormatter struct {
	showStack bool
	showInner bool
}

// NewErrorFormatter creates a new error formatter
func NewErrorFormatter(showStack bool, showInner bool) *ErrorFormatter {
	return &ErrorFormatter{
		showStack: showStack,
		showInner: showInner,
	}
}

// Format formats an error as a string
func (f *ErrorFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	appErr := FromError(err)

	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", appErr.Type, appErr.Message))

	if appErr.Code != "" {
		parts = append(parts, fmt.Sprintf("code=%s", appErr.Code))
	}

	if f.showStack && len(appErr.Stack) > 0 {
		parts = append(parts, "stack:")
		for _, s := range appErr.Stack {
			parts = append(parts, "  "+s)
		}
	}

	if f.showInner && appErr.InnerError != nil {
		parts = append(parts, "caused_by: "+appErr.InnerError.Error())
	}

	return strings.Join(parts, " | ")
}

// ErrorRecover converts a recovered panic value into an error.
// It must be called directly from a deferred function.
func ErrorRecover(r interface{}) error {
	if r == nil {
		return nil
	}
	var err error
	switch v := r.(type) {
	case error:
		err = v
	case string:
		err = errors.New(v)
	default:
		err = fmt.Errorf("%v", v)
	}
	return WrapWithType(err, ErrorTypeInternal, "panic recovered: "+err.Error()).
		WithHTTPStatus(http.StatusInternalServerError).
		WithStack()
}

func captureStack(skip int) []string {
	var stack []string
	for i := skip; i < 10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		funcName := fn.Name()
		if idx := strings.LastIndex(funcName, "/"); idx >= 0 {
			funcName = funcName[idx+1:]
		}

		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, funcName))
	}
	return stack
}
