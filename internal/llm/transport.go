package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPTransport returns the default Transport backed by net/http. It
// reports HTTP error statuses through Response.Status and reserves Go
// errors for connectivity and timeout failures, which is what the
// retry policy in Call keys on.
func HTTPTransport(timeout time.Duration) Transport {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	return func(ctx context.Context, req Request) (*Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		for k, v := range req.Headers {
			httpReq.Header.Set(k, v)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("send request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return &Response{Status: resp.StatusCode, Body: body}, nil
	}
}
