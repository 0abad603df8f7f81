package helpers

import (
	"bufio"
	"bytes"
	"net/http"
	"sync"
)

// MockHTTP is http.RoundTripper for tests.
// Priority: Fun, Err, Routes[URL.RequestURI()], Header+Body.
type MockHTTP struct {
	Fun    func(*http.Request) (*http.Response, error)
	Header []byte
	Body   []byte
	Err    error
	Routes map[string][]byte

	mu       sync.Mutex
	requests []string
}

func (m *MockHTTP) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req.URL.String())
	m.mu.Unlock()

	if m.Fun != nil {
		return m.Fun(req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	body := m.Body
	header := m.Header
	if m.Routes != nil {
		if b, ok := m.Routes[req.URL.RequestURI()]; ok {
			body = b
		} else {
			body = nil
			header = []byte("HTTP/1.0 404 Not Found\r\n\r\n")
		}
	}
	return MockResponse(req, header, body)
}

// Requests returns URLs seen so far, in order.
func (m *MockHTTP) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

func MockResponse(req *http.Request, header, body []byte) (*http.Response, error) {
	if header == nil {
		header = []byte("HTTP/1.0 200 OK\r\n\r\n")
	}
	rb := make([]byte, 0, len(header)+len(body))
	rb = append(rb, header...)
	rb = append(rb, body...)
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(rb)), req)
}
