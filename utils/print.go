package utils

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"
)

// PrintRoutes writes every route registered on r to w, one per line.
func PrintRoutes(w io.Writer, r chi.Routes) error {
	fmt.Fprintln(w, "=== Registered Routes ===")
	walkFunc := func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		_, err := fmt.Fprintf(w, "%-6s %s\n", method, strings.ReplaceAll(route, "/*/", "/"))
		return err
	}
	if err := chi.Walk(r, walkFunc); err != nil {
		return fmt.Errorf("walk routes: %w", err)
	}
	_, err := fmt.Fprintln(w, "=========================")
	return err
}
