// FILE: src/internal/worker/transport.go
package worker

import (
	"fmt"
	"time"

	"tracehook/src/internal/version"

	"github.com/valyala/fasthttp"
)

// Transport posts one payload body to a webhook URL. A nil error means the
// endpoint returned a success response; the response body is read but its
// content is not validated.
type Transport interface {
	Post(url string, body []byte) error
}

// HTTPTransport delivers payloads over fasthttp
type HTTPTransport struct {
	client  *fasthttp.Client
	timeout time.Duration
}

// NewHTTPTransport creates a transport with the given per-request timeout
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			MaxIdleConnDuration: 10 * time.Second,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		timeout: timeout,
	}
}

// Post sends one payload. Transport errors and non-2xx responses are both
// returned as plain errors; the caller's retry counter does not distinguish
// them.
func (t *HTTPTransport) Post(url string, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("tracehook/%s", version.Short()))
	req.SetBody(body)

	err := t.client.DoTimeout(req, resp, t.timeout)
	statusCode := resp.StatusCode()

	// Release immediately, not deferred
	fasthttp.ReleaseRequest(req)
	fasthttp.ReleaseResponse(resp)

	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if statusCode < 200 || statusCode >= 300 {
		return fmt.Errorf("server returned status %d", statusCode)
	}
	return nil
}
