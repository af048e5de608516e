// Package notify delivers job run summaries to an operator-configured
// webhook endpoint.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/domain/models"
)

// WebhookClient posts run summaries as JSON to a fixed URL.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewWebhookClient builds a notifier from configuration. The returned client
// reports Enabled() == false when no URL is configured.
func NewWebhookClient(cfg config.NotifyConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)

	return &WebhookClient{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *WebhookClient) Enabled() bool {
	return c.url != ""
}

// NotifyCarrySummary posts one carry-forward run summary. A non-2xx response
// is an error so callers can log the rejection.
func (c *WebhookClient) NotifyCarrySummary(ctx context.Context, summary models.CarrySummary) error {
	if !c.Enabled() {
		return nil
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(summary).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post carry-forward summary: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("summary webhook rejected with status %d", resp.StatusCode())
	}

	return nil
}
