// Package templates serves the HTML pages, the stylesheet and the favicon
// of the upload service.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path"
	"strings"
)

const (
	IndexPage = "index.html"
	ErrorPage = "error.html"

	// ErrorMessageKey is the placeholder filled on the error page.
	ErrorMessageKey = "error_message"

	contentTypeCSS    = "text/css; charset=utf-8"
	contentTypeBinary = "application/octet-stream"
)

//go:embed assets
var embedded embed.FS

var ErrNotFound = errors.New("template asset not found")

// Context maps placeholder names to already safe HTML.
type Context map[string]string

// Renderer loads assets from the embedded set or from a directory on disk.
type Renderer struct {
	files   fs.FS
	favicon string
}

// New returns a renderer over dir, or over the embedded assets when dir is
// empty. favicon names the icon served at /favicon.ico.
func New(dir, favicon string) (*Renderer, error) {
	var files fs.FS
	if dir == "" {
		sub, err := fs.Sub(embedded, "assets")
		if err != nil {
			return nil, err
		}
		files = sub
	} else {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("templates dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("templates dir %s is not a directory", dir)
		}
		files = os.DirFS(dir)
	}
	if favicon == "" {
		favicon = "genico.ico"
	}
	return &Renderer{files: files, favicon: favicon}, nil
}

// Render reads name and substitutes every literal "{{ key }}" occurrence.
// Values are inserted verbatim; unknown placeholders are left untouched.
func (r *Renderer) Render(name string, ctx Context) ([]byte, error) {
	data, err := r.read(name)
	if err != nil {
		return nil, err
	}
	if len(ctx) == 0 {
		return data, nil
	}

	pairs := make([]string, 0, len(ctx)*2)
	for k, v := range ctx {
		pairs = append(pairs, "{{ "+k+" }}", v)
	}
	return []byte(strings.NewReplacer(pairs...).Replace(string(data))), nil
}

// Index renders the upload page.
func (r *Renderer) Index() ([]byte, error) {
	return r.Render(IndexPage, nil)
}

// Error renders the error page listing messages, escaped and joined with
// line breaks.
func (r *Renderer) Error(messages ...string) ([]byte, error) {
	escaped := make([]string, 0, len(messages))
	for _, m := range messages {
		escaped = append(escaped, html.EscapeString(m))
	}
	return r.Render(ErrorPage, Context{ErrorMessageKey: strings.Join(escaped, "<br>")})
}

// Favicon returns the icon bytes.
func (r *Renderer) Favicon() ([]byte, error) {
	return r.read(r.favicon)
}

// Asset returns a static file with its content type. Stylesheets are served
// as CSS, everything else as an opaque download.
func (r *Renderer) Asset(name string) ([]byte, string, error) {
	data, err := r.read(name)
	if err != nil {
		return nil, "", err
	}
	return data, ContentType(name), nil
}

// ContentType maps an asset name to the header value it is served with.
func ContentType(name string) string {
	if strings.EqualFold(path.Ext(name), ".css") {
		return contentTypeCSS
	}
	return contentTypeBinary
}

func (r *Renderer) read(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	// Directories and unreadable files are reported as missing too.
	data, err := fs.ReadFile(r.files, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, name, err)
	}
	return data, nil
}
