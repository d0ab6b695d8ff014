package logging

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"
)

// generateRequestID generates a random request ID.
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:16]
	}
	return hex.EncodeToString(b)
}

// Transport wraps an http.RoundTripper so that every outgoing request
// carries an X-Request-ID header and is logged on completion.
type Transport struct {
	Next http.RoundTripper
}

// NewTransport returns a logging transport around next
// (http.DefaultTransport when nil).
func NewTransport(next http.RoundTripper) *Transport {
	return &Transport{Next: next}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}

	requestID := req.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = GetRequestID(req.Context())
	}
	if requestID == "" {
		requestID = generateRequestID()
	}
	ctx := WithRequestID(req.Context(), requestID)
	req = req.Clone(ctx)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := next.RoundTrip(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if err != nil {
		FetchCompleted(ctx, req.URL.String(), status, time.Since(start), "error", err.Error())
		return resp, err
	}
	FetchCompleted(ctx, req.URL.String(), status, time.Since(start), "method", req.Method)
	return resp, nil
}
