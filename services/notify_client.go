package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"djanselme/internal/status"
	"djanselme/models"
	"djanselme/utils"
)

// NotifyClient posts notification payloads to the email function over
// HTTP. Calls run through a circuit breaker so a dead mail backend does
// not slow every submission down to its timeout.
type NotifyClient struct {
	url     string
	client  *http.Client
	breaker *utils.CircuitBreaker
}

func NewNotifyClient(url string) *NotifyClient {
	return &NotifyClient{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: utils.NewCircuitBreaker("notify"),
	}
}

func (c *NotifyClient) Send(ctx context.Context, payload models.NotificationPayload) error {
	_, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		return nil, c.post(ctx, payload)
	})
	return err
}

func (c *NotifyClient) post(ctx context.Context, payload models.NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", status.ErrNotifyFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return status.ErrRateLimited
	}
	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", status.ErrNotifyFailed, resp.StatusCode, msg)
	}
	return nil
}
