package responder

import (
	"net/http"

	apperrors "github.com/leeforge/genico/errors"
)

const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeJSON = "application/json"
)

// Plain text bodies of the fixed routes.
const (
	MsgNotFound            = "Not Found"
	MsgFileNotFound        = "File Not Found"
	MsgFaviconNotFound     = "Favicon Not Found"
	MsgMethodNotAllowed    = "Method Not Allowed"
	MsgInternalServerError = "Internal Server Error"
)

// FromAppError maps err to a status code and a client safe error body.
// Errors that are not AppErrors become a generic 500.
func FromAppError(err error) (int, Error) {
	appErr := apperrors.FromError(err)
	if appErr == nil || appErr.Type == apperrors.ErrorTypeUnknown {
		return http.StatusInternalServerError, Error{
			Code:    apperrors.CodeInternalError,
			Message: MsgInternalServerError,
		}
	}

	e := Error{Code: appErr.Code, Message: appErr.Message}
	if w := appErr.Warnings(); len(w) > 0 {
		e.Details = map[string]any{"warnings": w}
	}
	return appErr.Status(), e
}
