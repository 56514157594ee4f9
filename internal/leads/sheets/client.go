// Package sheets posts leads to a spreadsheet webhook (e.g. a Google Apps Script).
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/platform/config"
	"marmurfit_voicebot/platform/logger"
)

// Client posts one JSON object per lead.
type Client struct {
	url  string
	http *http.Client
	log  *logger.Logger
}

// NewClient returns nil when no webhook URL is configured.
func NewClient(cfg config.LeadsConfig, log *logger.Logger) *Client {
	if cfg.GetLeadsWebhookURL() == "" {
		return nil
	}

	return &Client{
		url:  cfg.GetLeadsWebhookURL(),
		http: &http.Client{Timeout: cfg.GetLeadsWebhookTimeout()},
		log:  log,
	}
}

// Name identifies the sink in logs.
func (c *Client) Name() string { return "sheets" }

// Deliver posts the lead. Any 2xx response counts as accepted.
func (c *Client) Deliver(ctx context.Context, lead domain.Lead) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("marshal sheet row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sheet webhook request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheet webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("lead posted to sheet", "lead_id", lead.ID.String(), "status", resp.StatusCode, "latency_ms", time.Since(start).Milliseconds())
	return nil
}
