// Package testing holds fixtures and HTTP helpers shared by the package
// tests. Import it as gtesting.
package testing

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// TestContext holds test context and utilities
type TestContext struct {
	t          *testing.T
	ctx        context.Context
	cancel     context.CancelFunc
	components map[string]interface{}
	mu         sync.Mutex
}

// NewTestContext creates a test context that is cleaned up with t.
func NewTestContext(t *testing.T) *TestContext {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	tc := &TestContext{
		t:          t,
		ctx:        ctx,
		cancel:     cancel,
		components: make(map[string]interface{}),
	}
	t.Cleanup(tc.Cleanup)
	return tc
}

// Context returns the context
func (tc *TestContext) Context() context.Context {
	return tc.ctx
}

// Cleanup cancels the context and closes every registered component.
func (tc *TestContext) Cleanup() {
	tc.cancel()
	tc.mu.Lock()
	defer tc.mu.Unlock()
	for name, component := range tc.components {
		if closer, ok := component.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				tc.t.Logf("Failed to close %s: %v", name, err)
			}
		}
	}
	tc.components = make(map[string]interface{})
}

// Set stores a component
func (tc *TestContext) Set(name string, component interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.components[name] = component
}

// Get retrieves a component
func (tc *TestContext) Get(name string) interface{} {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.components[name]
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// HTTPTestClient drives a handler through a real listener.
type HTTPTestClient struct {
	server *httptest.Server
	client *http.Client
}

// NewHTTPTestClient starts a server for handler, closed with t.
func NewHTTPTestClient(t *testing.T, handler http.Handler) *HTTPTestClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &HTTPTestClient{
		server: server,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// URL returns the server base URL.
func (c *HTTPTestClient) URL() string {
	return c.server.URL
}

// Get makes a GET request
func (c *HTTPTestClient) Get(path string, headers map[string]string) (*Response, error) {
	return c.Do(http.MethodGet, path, nil, headers)
}

// PostUpload posts a multipart body built by MultipartUpload.
func (c *HTTPTestClient) PostUpload(path string, upload *Upload, headers map[string]string) (*Response, error) {
	h := map[string]string{"Content-Type": upload.ContentType}
	for k, v := range headers {
		h[k] = v
	}
	return c.Do(http.MethodPost, path, bytes.NewReader(upload.Body), h)
}

// Do sends any request and reads the whole response.
func (c *HTTPTestClient) Do(method, path string, body io.Reader, headers map[string]string) (*Response, error) {
	req, err := http.NewRequest(method, c.server.URL+path, body)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
