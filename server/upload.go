package server

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/leeforge/genico/config"
	apperrors "github.com/leeforge/genico/errors"
)

// Room for boundaries, part headers and other form fields on top of the
// file itself.
const multipartOverhead = 1 << 20

// Upload is the file part of a POST / request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// readUpload streams the multipart body and keeps the first part named
// cfg.Field. Nothing is spooled to disk, so there is no temporary state to
// release afterwards.
func readUpload(w http.ResponseWriter, r *http.Request, cfg config.UploadConfig) (*Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBytes+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, apperrors.NewUpload(apperrors.CodeBadRequest, err.Error())
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewUpload(apperrors.CodeMissingFile, "no "+cfg.Field+" part")
		}
		if err != nil {
			return nil, uploadReadError(err)
		}
		if part.FormName() != cfg.Field {
			_ = part.Close()
			continue
		}
		upload, err := readPart(part, cfg)
		_ = part.Close()
		return upload, err
	}
}

func readPart(part *multipart.Part, cfg config.UploadConfig) (*Upload, error) {
	ctype := part.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ctype), "image/") {
		return nil, apperrors.NewUpload(apperrors.CodeUnsupportedMedia, "part content type "+ctype)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, cfg.MaxBytes+1))
	if err != nil {
		return nil, uploadReadError(err)
	}
	if n > cfg.MaxBytes {
		return nil, apperrors.NewUpload(apperrors.CodeFileTooLarge, "file exceeds upload limit")
	}
	if n == 0 {
		return nil, apperrors.NewUpload(apperrors.CodeMissingFile, "file part is empty")
	}

	filename := part.FileName()
	if filename == "" {
		filename = cfg.DefaultFilename
	}
	return &Upload{Filename: filename, ContentType: ctype, Data: buf.Bytes()}, nil
}

func uploadReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.NewUpload(apperrors.CodeFileTooLarge, err.Error())
	}
	return apperrors.NewUpload(apperrors.CodeBadRequest, err.Error())
}
