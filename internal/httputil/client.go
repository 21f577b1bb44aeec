// Package httputil provides HTTP client abstractions for testability.
package httputil

import (
	"net/http"
	"sync"
)

// HTTPClient abstracts HTTP operations for testability.
// Use StandardClient for production; MockHTTPClient for testing.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// StandardClient wraps *http.Client to implement HTTPClient.
type StandardClient struct {
	*http.Client
}

// NewStandardClient creates a new StandardClient wrapping the given http.Client.
func NewStandardClient(c *http.Client) *StandardClient {
	if c == nil {
		c = http.DefaultClient
	}
	return &StandardClient{Client: c}
}

// Do sends an HTTP request.
func (c *StandardClient) Do(req *http.Request) (*http.Response, error) {
	return c.Client.Do(req)
}

// MockHTTPClient records requests and serves canned responses for testing.
type MockHTTPClient struct {
	mu       sync.Mutex
	DoFunc   func(req *http.Request) (*http.Response, error)
	Requests []*http.Request
}

// Do records the request and delegates to DoFunc.
func (c *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	c.Requests = append(c.Requests, req)
	c.mu.Unlock()
	return c.DoFunc(req)
}

// RequestCount returns the number of requests recorded so far.
func (c *MockHTTPClient) RequestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}
