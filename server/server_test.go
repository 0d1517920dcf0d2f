package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/creasty/defaults"
	"github.com/leeforge/genico/config"
	"github.com/leeforge/genico/logging"
	"github.com/leeforge/genico/media/processor"
	"github.com/leeforge/genico/templates"
	gtesting "github.com/leeforge/genico/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := &config.AppConfig{}
	require.NoError(t, defaults.Set(cfg))
	return cfg
}

func newTestServer(t *testing.T, cfg *config.AppConfig) *Server {
	t.Helper()
	converter, err := processor.NewConverter(processor.OptionsFromConfig(cfg.Image))
	require.NoError(t, err)
	pages, err := templates.New(cfg.Templates.Dir, cfg.Templates.Favicon)
	require.NoError(t, err)
	return New(cfg, converter, pages)
}

func newClient(t *testing.T, cfg *config.AppConfig) *gtesting.HTTPTestClient {
	t.Helper()
	return gtesting.NewHTTPTestClient(t, newTestServer(t, cfg).Handler())
}

func upload(t *testing.T, client *gtesting.HTTPTestClient, u *gtesting.Upload, headers map[string]string) *gtesting.Response {
	t.Helper()
	resp, err := client.PostUpload("/", u, headers)
	require.NoError(t, err)
	return resp
}

func TestGetRoutes(t *testing.T) {
	client := newClient(t, testConfig(t))

	tests := []struct {
		method, path string
		status       int
		contentType  string
		body         string
	}{
		{http.MethodGet, "/", http.StatusOK, "text/html; charset=utf-8", `name="file"`},
		{http.MethodGet, "/favicon.ico", http.StatusOK, "image/x-icon", ""},
		{http.MethodGet, "/templates/style.css", http.StatusOK, "text/css; charset=utf-8", ":root"},
		{http.MethodGet, "/templates/genico.ico", http.StatusOK, "application/octet-stream", ""},
		{http.MethodGet, "/templates/missing.css", http.StatusNotFound, "", "File Not Found"},
		{http.MethodGet, "/templates/../go.mod", http.StatusNotFound, "", ""},
		{http.MethodGet, "/nope", http.StatusNotFound, "", "Not Found"},
		{http.MethodPost, "/favicon.ico", http.StatusNotFound, "", "Not Found"},
		{http.MethodPut, "/", http.StatusMethodNotAllowed, "", "Method Not Allowed"},
		{http.MethodDelete, "/nope", http.StatusMethodNotAllowed, "", "Method Not Allowed"},
		{http.MethodPatch, "/templates/style.css", http.StatusMethodNotAllowed, "", "Method Not Allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := client.Do(tt.method, tt.path, nil, nil)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			}
			if tt.body != "" {
				assert.Contains(t, resp.Text(), tt.body)
			}
			assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
		})
	}
}

func TestFaviconMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Templates.Dir = t.TempDir()
	client := newClient(t, cfg)

	resp, err := client.Get("/favicon.ico", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Favicon Not Found", resp.Text())
}

func TestConvertValidPNG(t *testing.T) {
	client := newClient(t, testConfig(t))

	resp := upload(t, client, gtesting.MultipartUpload(t, "file", "icon.png", "image/png", gtesting.PNG(t, 300, 300)), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/x-icon", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename*=UTF-8''icon.ico", resp.Header.Get("Content-Disposition"))

	img, err := png.Decode(bytes.NewReader(resp.Body))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestConvertEncodesFilename(t *testing.T) {
	client := newClient(t, testConfig(t))

	resp := upload(t, client, gtesting.MultipartUpload(t, "file", "my logo.v2.PNG", "image/png", gtesting.PNG(t, 256, 256)), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename*=UTF-8''my%20logo.v2.ico", resp.Header.Get("Content-Disposition"))

	resp = upload(t, client, gtesting.MultipartUpload(t, "file", "", "image/png", gtesting.PNG(t, 256, 256)), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename*=UTF-8''uploaded.ico", resp.Header.Get("Content-Disposition"))
}

func TestConvertInvalidImageListsWarnings(t *testing.T) {
	client := newClient(t, testConfig(t))

	resp := upload(t, client, gtesting.MultipartUpload(t, "file", "a.png", "image/png", gtesting.PNG(t, 100, 200)), nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	body := resp.Text()
	assert.Contains(t, body, "image must be square (1:1)<br>image size should be at least 256px")
	assert.NotContains(t, body, "only PNG files are supported")
}

func TestConvertLocalizedWarnings(t *testing.T) {
	client := newClient(t, testConfig(t))

	resp := upload(t, client, gtesting.MultipartUpload(t, "file", "a.png", "image/png", gtesting.PNG(t, 100, 100)),
		map[string]string{"Accept-Language": "ja,en;q=0.5"})

	assert.Contains(t, resp.Text(), "画像サイズは256px以上を推奨します。")
}

func TestConvertValidationStatus(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.ValidationStatus = http.StatusUnprocessableEntity
	client := newClient(t, cfg)

	resp := upload(t, client, gtesting.MultipartUpload(t, "file", "a.jpg", "image/jpeg", gtesting.JPEG(t, 300, 300)), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, resp.Text(), "only PNG files are supported")
}

func TestConvertJSON(t *testing.T) {
	client := newClient(t, testConfig(t))

	resp := upload(t, client, gtesting.MultipartUpload(t, "file", "photo.jpg", "image/jpeg", gtesting.JPEG(t, 100, 200)),
		map[string]string{"Accept": "application/json"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body struct {
		Valid        bool     `json:"valid"`
		Warnings     []string `json:"warnings"`
		DetectedMIME string   `json:"detected_mime"`
	}
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	assert.False(t, body.Valid)
	assert.Equal(t, []string{
		"only PNG files are supported",
		"image must be square (1:1)",
		"image size should be at least 256px",
	}, body.Warnings)
	assert.Equal(t, "image/jpeg", body.DetectedMIME)
}

func TestConvertUndecodableImage(t *testing.T) {
	client := newClient(t, testConfig(t))

	resp := upload(t, client, gtesting.MultipartUpload(t, "file", "fake.png", "image/png", []byte("just some text")), nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Text(), "image could not be read")
}

func TestConvertRejectsBadUploads(t *testing.T) {
	cfg := testConfig(t)
	cfg.Upload.MaxBytes = 1024
	client := newClient(t, cfg)

	tests := map[string]*gtesting.Upload{
		"non-image mime": gtesting.MultipartUpload(t, "file", "notes.png", "text/plain", []byte("hello")),
		"missing mime":   gtesting.MultipartUpload(t, "file", "notes.png", "", []byte("hello")),
		"wrong field":    gtesting.MultipartUpload(t, "image", "a.png", "image/png", gtesting.PNG(t, 16, 16)),
		"empty file":     gtesting.MultipartUpload(t, "file", "a.png", "image/png", nil),
		"too large":      gtesting.MultipartUpload(t, "file", "a.png", "image/png", bytes.Repeat([]byte{1}, 2048)),
	}
	for name, u := range tests {
		t.Run(name, func(t *testing.T) {
			resp := upload(t, client, u, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
			assert.Contains(t, resp.Text(), "Bad Request")
		})
	}

	t.Run("not multipart", func(t *testing.T) {
		resp, err := client.Do(http.MethodPost, "/", strings.NewReader("file=x"),
			map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("json client", func(t *testing.T) {
		resp := upload(t, client, tests["non-image mime"], map[string]string{"Accept": "application/json"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, resp.Text(), `"code":"UNSUPPORTED_MEDIA"`)
	})
}

func TestServeLifecycle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := testConfig(t)
	converter, err := processor.NewConverter(processor.DefaultOptions())
	require.NoError(t, err)
	pages, err := templates.New("", "")
	require.NoError(t, err)
	s := New(cfg, converter, pages, WithLogger(logging.FromZap(zap.New(core))))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Equal(t, 1, logs.FilterMessage("Serving at http://localhost:"+strconv.Itoa(port)).Len())
	assert.Equal(t, 1, logs.FilterMessage("Shutting down server...").Len())
	assert.Equal(t, 1, logs.FilterMessage("Server closed").Len())
}

func TestRunFailsWhenPortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	cfg := testConfig(t)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port
	s := newTestServer(t, cfg)

	err = s.Run(context.Background())
	assert.ErrorContains(t, err, "listen on")
}
