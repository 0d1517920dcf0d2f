package utils

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chi "github.com/go-chi/chi/v5"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if isDir, ok, err := Exists(dir); err != nil || !ok || !isDir {
		t.Errorf("Exists(dir) = %v %v %v", isDir, ok, err)
	}
	if !IsFile(file) {
		t.Error("IsFile(file) = false")
	}
	if _, ok, _ := Exists(filepath.Join(dir, "missing")); ok {
		t.Error("missing path reported as existing")
	}

	nested := filepath.Join(dir, "a", "b")
	if err := CreateDir(nested); err != nil {
		t.Fatal(err)
	}
	if isDir, ok, _ := Exists(nested); !ok || !isDir {
		t.Error("CreateDir did not create the directory")
	}
}

func TestPrintRoutes(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/", func(http.ResponseWriter, *http.Request) {})
	r.Post("/", func(http.ResponseWriter, *http.Request) {})

	var buf bytes.Buffer
	if err := PrintRoutes(&buf, r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "GET    /") || !strings.Contains(out, "POST   /") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
