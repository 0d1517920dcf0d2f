package responder

import "net/http"

type Option func(*Meta)

// PanicFn is called when the body could not be written. The status line
// is already gone at that point, so it can only log or abort.
type PanicFn func(http.ResponseWriter, *http.Request, error)

func DefaultPanicFn(w http.ResponseWriter, r *http.Request, err error) {
	panic(err)
}
