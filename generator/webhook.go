package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// GenerationEvent is the JSON body sent to the configured webhook URL for
// each written image.
type GenerationEvent struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Content   string `json:"content"`
	Path      string `json:"path"`
	Bytes     int    `json:"bytes"`
	Timestamp int64  `json:"timestamp"`
}

// WebhookSender delivers generation events to an external HTTP endpoint.
type WebhookSender struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

// NewWebhookSender creates a WebhookSender ready to POST events to the given
// url. If url is empty the sender is a no-op (Send returns nil immediately).
func NewWebhookSender(url string, timeout time.Duration, log *slog.Logger) *WebhookSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookSender{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Send posts evt. A non-2xx response is logged, not returned as an error.
func (w *WebhookSender) Send(ctx context.Context, evt *GenerationEvent) error {
	if w.url == "" {
		return nil
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("webhook marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.log.Error("webhook delivery failed", "error", err, "id", evt.ID)
		return fmt.Errorf("webhook POST: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		w.log.Debug("webhook delivered", "status", resp.StatusCode, "id", evt.ID)
	} else {
		w.log.Warn("webhook non-2xx response", "status", resp.StatusCode, "id", evt.ID)
	}
	return nil
}
