package responder

import (
	"net/http"
	"strconv"

	"github.com/leeforge/genico/json"
)

type ResponderFactory struct {
	panicFn PanicFn
}

// FactoryOption defines configuration options for ResponderFactory
type FactoryOption func(*ResponderFactory)

// WithPanicFn sets a custom panic handler
func WithPanicFn(panicFn PanicFn) FactoryOption {
	return func(f *ResponderFactory) {
		f.panicFn = panicFn
	}
}

// NewResponderFactory creates a new ResponderFactory with options
func NewResponderFactory(opts ...FactoryOption) *ResponderFactory {
	f := &ResponderFactory{
		panicFn: DefaultPanicFn,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *ResponderFactory) FromRequest(w http.ResponseWriter, r *http.Request) *Responder {
	return New(w, r, f.panicFn)
}

// Responder writes one response for one request.
type Responder struct {
	w       http.ResponseWriter
	r       *http.Request
	panicFn PanicFn
}

func New(w http.ResponseWriter, r *http.Request, panicFn PanicFn) *Responder {
	if panicFn == nil {
		panicFn = DefaultPanicFn
	}
	return &Responder{
		w:       w,
		r:       r,
		panicFn: panicFn,
	}
}

func (r *Responder) writeRaw(status int, payload []byte, contentType string) {
	h := r.w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(payload)))
	r.w.WriteHeader(status)
	if _, err := r.w.Write(payload); err != nil {
		r.panicFn(r.w, r.r, err)
	}
}

// HTML writes a rendered page.
func (r *Responder) HTML(status int, page []byte) {
	r.writeRaw(status, page, ContentTypeHTML)
}

// Text writes a plain text message.
func (r *Responder) Text(status int, msg string) {
	r.writeRaw(status, []byte(msg), ContentTypeText)
}

// Blob writes data with an explicit content type.
func (r *Responder) Blob(status int, contentType string, data []byte) {
	r.writeRaw(status, data, contentType)
}

// JSON encodes payload with the json package.
func (r *Responder) JSON(status int, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		fallback := []byte(`{"error":{"code":"INTERNAL_ERROR","message":"encode failed"}}`)
		r.writeRaw(http.StatusInternalServerError, fallback, ContentTypeJSON)
		r.panicFn(r.w, r.r, err)
		return
	}
	r.writeRaw(status, raw, ContentTypeJSON)
}

// Attachment sends data as a download named filename.
func (r *Responder) Attachment(contentType, filename string, data []byte) {
	r.w.Header().Set("Content-Disposition", AttachmentDisposition(filename))
	r.writeRaw(http.StatusOK, data, contentType)
}

// Error writes err as JSON with the status its type maps to.
func (r *Responder) Error(err error, opts ...Option) {
	status, body := FromAppError(err)
	r.JSON(status, &ErrorResponse{Error: body, Meta: *NewMeta(opts...)})
}

// Validation writes a rejected image report.
func (r *Responder) Validation(status int, warnings []string, detectedMIME string, opts ...Option) {
	if warnings == nil {
		warnings = []string{}
	}
	res := &ValidationResponse{
		Valid:        false,
		Warnings:     warnings,
		DetectedMIME: detectedMIME,
	}
	if len(opts) > 0 {
		res.Meta = NewMeta(opts...)
	}
	r.JSON(status, res)
}

// NotFound writes the plain "Not Found" body, or msg when given.
func (r *Responder) NotFound(msg string) {
	if msg == "" {
		msg = MsgNotFound
	}
	r.Text(http.StatusNotFound, msg)
}

func (r *Responder) MethodNotAllowed() {
	r.Text(http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

func (r *Responder) InternalServerError() {
	r.Text(http.StatusInternalServerError, MsgInternalServerError)
}
