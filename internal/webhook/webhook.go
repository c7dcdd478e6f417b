// Package webhook posts submitted requests to the intake webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/log"
)

// DefaultURL is the endpoint requests are posted to when none is configured.
const DefaultURL = "https://n8n.alecautomations.com/webhook/5445a620-a5ee-456c-9ff0-83850c775d78"

// StatusError is returned when the webhook answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned %s", e.Status)
}

// Client posts payloads as JSON. The zero value is not usable; set URL.
type Client struct {
	URL       string
	HTTP      *http.Client
	UserAgent string
}

// New creates a client for url. A zero timeout means no timeout.
func New(url string, timeout time.Duration) *Client {
	return &Client{
		URL:  url,
		HTTP: &http.Client{Timeout: timeout},
	}
}

// Send posts p to the webhook. The response body is discarded.
func (c *Client) Send(ctx context.Context, p intake.SubmitPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	log.FromContext(ctx).Request(req.Method, c.URL)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}
