package alert

import (
	"context"
	"fmt"
	"time"

	imrocreq "github.com/imroc/req/v3"
)

const webhookTimeout = 10 * time.Second

// webhookAlerter posts the alert payload as JSON to a notification webhook
// (Slack-compatible block format).
type webhookAlerter struct {
	url    string
	client *imrocreq.Client
}

func newWebhookAlerter(url string) *webhookAlerter {
	return &webhookAlerter{
		url:    url,
		client: imrocreq.C().SetTimeout(webhookTimeout),
	}
}

func (w *webhookAlerter) SendAlert(ctx context.Context, payload *Payload) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("failed to send webhook request: %w", err)
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
