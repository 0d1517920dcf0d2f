package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/leeforge/genico/errors"
	"github.com/leeforge/genico/http/middleware"
	"github.com/leeforge/genico/http/responder"
	"github.com/leeforge/genico/i18n"
	"github.com/leeforge/genico/logging"
	"github.com/leeforge/genico/media/processor"
	"go.uber.org/zap"
)

var errorFormat = apperrors.NewErrorFormatter(false, true)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	res := s.responders.FromRequest(w, r)
	page, err := s.pages.Index()
	if err != nil {
		s.log(r).Error("render index failed", zap.Error(err))
		res.InternalServerError()
		return
	}
	res.HTML(http.StatusOK, page)
}

func (s *Server) handleFavicon(w http.ResponseWriter, r *http.Request) {
	res := s.responders.FromRequest(w, r)
	icon, err := s.pages.Favicon()
	if err != nil {
		res.NotFound(responder.MsgFaviconNotFound)
		return
	}
	res.Blob(http.StatusOK, processor.ContentTypeICO, icon)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	res := s.responders.FromRequest(w, r)
	data, ctype, err := s.pages.Asset(chi.URLParam(r, "*"))
	if err != nil {
		res.NotFound(responder.MsgFileNotFound)
		return
	}
	res.Blob(http.StatusOK, ctype, data)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.responders.FromRequest(w, r).NotFound("")
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	logger := s.log(r)
	printer := i18n.Negotiate(r.Header.Get("Accept-Language"), s.cfg.Locale)

	upload, err := readUpload(w, r, s.cfg.Upload)
	if err != nil {
		appErr := apperrors.FromError(err)
		logger.Warn("upload rejected",
			zap.String("code", appErr.Code),
			zap.Any("reason", appErr.Details["reason"]),
		)
		s.fail(w, r, http.StatusBadRequest, []string{printer.Sprintf(i18n.KeyBadRequest)}, err)
		return
	}

	logger = logger.With(zap.String("filename", upload.Filename), zap.Int("bytes", len(upload.Data)))
	result, err := s.converter.Convert(r.Context(), processor.ConversionRequest{
		Data:     upload.Data,
		Filename: upload.Filename,
	})

	var verr *processor.ValidationError
	switch {
	case errors.As(err, &verr):
		messages := verr.Result.Messages(printer)
		logger.Info("image rejected",
			zap.Strings("warnings", verr.Result.Messages(nil)),
			zap.String("detected_mime", verr.Metadata.MIME),
		)
		if wantsJSON(r) {
			s.responders.FromRequest(w, r).Validation(s.cfg.Server.ValidationStatus, messages, verr.Metadata.MIME,
				responder.WithTraceID(middleware.GetTraceIDFromRequest(r)),
				responder.WithTook(middleware.GetRequestDurationFromRequest(r)),
			)
			return
		}
		s.fail(w, r, s.cfg.Server.ValidationStatus, messages, nil)

	case apperrors.IsType(err, apperrors.ErrorTypeCancelled):
		logger.Warn("conversion abandoned", zap.Error(err))
		s.responders.FromRequest(w, r).Error(err)

	case err != nil:
		cause := errors.Unwrap(err)
		if cause == nil {
			cause = err
		}
		logger.Error("conversion failed", zap.String("error", errorFormat.Format(err)))
		s.fail(w, r, http.StatusOK, []string{printer.Sprintf(i18n.KeyConversionFailed, cause)}, err)

	default:
		logger.Info("image converted",
			zap.String("output", result.Filename),
			zap.Bool("cached", result.Cached),
		)
		s.responders.FromRequest(w, r).Attachment(processor.ContentTypeICO, result.Filename, result.Data)
	}
}

// fail writes the error page, or a JSON error for clients asking for JSON.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, messages []string, cause error) {
	res := s.responders.FromRequest(w, r)

	if wantsJSON(r) {
		if cause == nil {
			cause = apperrors.NewValidation(messages).WithHTTPStatus(status)
		}
		res.Error(apperrors.FromError(cause).WithMessage(strings.Join(messages, "; ")),
			responder.WithTraceID(middleware.GetTraceIDFromRequest(r)),
		)
		return
	}

	page, err := s.pages.Error(messages...)
	if err != nil {
		s.log(r).Error("render error page failed", zap.Error(err))
		res.InternalServerError()
		return
	}
	res.HTML(status, page)
}

func (s *Server) log(r *http.Request) logging.Logger {
	return logging.WithContext(s.logger, r.Context())
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "application/json")
}
