package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultSinkTimeout bounds one POST to the status endpoint.
const DefaultSinkTimeout = 5 * time.Second

// payload is the wire shape the status endpoint accepts.
type payload struct {
	Name    string `json:"name"`
	Number  string `json:"number"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HTTPSink posts each attempt as JSON to a status endpoint.
type HTTPSink struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPSink returns a sink for url, or nil when url is empty so callers can
// skip the sink entirely.
func NewHTTPSink(url string, timeout time.Duration) *HTTPSink {
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultSinkTimeout
	}
	return &HTTPSink{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSink) Name() string { return "http:" + s.url }

// Send posts a. Any non-2xx answer is an error.
func (s *HTTPSink) Send(ctx context.Context, a Attempt) error {
	body, err := json.Marshal(payload{
		Name:    a.Name,
		Number:  a.Address,
		Status:  a.Status.String(),
		Message: a.Message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("status post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
