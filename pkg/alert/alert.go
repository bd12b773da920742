package alert

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/lantern-labs/beacon-backend/pkg/config"
	"github.com/lantern-labs/beacon-backend/pkg/probe"
)

// Payload is the JSON body posted to the alert webhook. Text is the short
// fallback summary; Blocks carry the structured rendering (header, failure
// count, one field set per failed URL, footer timestamp).
type Payload struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks"`
}

type Block struct {
	Type     string      `json:"type"`
	Text     *BlockText  `json:"text,omitempty"`
	Fields   []BlockText `json:"fields,omitempty"`
	Elements []BlockText `json:"elements,omitempty"`
}

type BlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const timestampFormat = "2006-01-02 15:04:05 MST"

// FormatAlert builds the alert payload from the failed subset of results.
// It is a pure function; an all-success input yields a payload with a header
// and footer but no failure blocks, and the caller is expected not to
// dispatch it.
func FormatAlert(results []probe.Result, baseURL string) *Payload {
	failed := lo.Filter(results, func(r probe.Result, _ int) bool { return !r.Success })

	payload := &Payload{
		Text: fmt.Sprintf("Health check failed for %s: %d of %d endpoints down", baseURL, len(failed), len(results)),
		Blocks: []Block{
			{
				Type: "header",
				Text: &BlockText{Type: "plain_text", Text: "Health Check Alert"},
			},
			{
				Type: "section",
				Text: &BlockText{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*%d* of *%d* checks failed for `%s`", len(failed), len(results), baseURL),
				},
			},
		},
	}

	for _, r := range failed {
		status := "no response"
		if r.Status != 0 {
			status = fmt.Sprintf("%d", r.Status)
		}
		payload.Blocks = append(payload.Blocks, Block{
			Type: "section",
			Fields: []BlockText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*URL:*\n%s", r.URL)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Status:*\n%s", status)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Attempts:*\n%d", r.Attempts)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Error:*\n%s", r.Error)},
			},
		})
	}

	payload.Blocks = append(payload.Blocks, Block{
		Type: "context",
		Elements: []BlockText{
			{Type: "mrkdwn", Text: time.Now().Format(timestampFormat)},
		},
	})
	return payload
}

// PlainText renders the payload for channels without block support (SMTP).
func (p *Payload) PlainText() string {
	var b strings.Builder
	b.WriteString(p.Text)
	b.WriteString("\n")
	for _, block := range p.Blocks {
		for _, f := range block.Fields {
			b.WriteString("\n")
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(f.Text, "*", ""), "\n", " "))
		}
	}
	return b.String()
}

type alertMgr struct {
	webhook *webhookAlerter       // nil when no default webhook is configured
	mail    alertHandlerInterface // nil when SMTP is not configured
}

var (
	once    sync.Once
	alerter *alertMgr
)

func GetAlertMgr() AlertInterface {
	once.Do(func() {
		alerter = initAlertMgr(config.GetConfig())
	})
	return alerter
}

func initAlertMgr(conf *config.Config) *alertMgr {
	mgr := &alertMgr{}
	if conf.Alert.WebhookURL != "" {
		mgr.webhook = newWebhookAlerter(conf.Alert.WebhookURL)
	}
	if conf.Alert.SMTP.Host != "" && conf.Alert.SMTP.Notify != "" {
		mgr.mail = newSMTPAlerter(conf)
	}
	return mgr
}

func (a *alertMgr) Dispatch(ctx context.Context, results []probe.Result, baseURL, webhookURL string) bool {
	failed := lo.CountBy(results, func(r probe.Result) bool { return !r.Success })
	if failed == 0 {
		return true
	}

	payload := FormatAlert(results, baseURL)

	// Mail goes out before the webhook is resolved, so an SMTP-only
	// deployment still alerts.
	if a.mail != nil {
		if err := a.mail.SendAlert(ctx, payload); err != nil {
			klog.Errorf("alert mail delivery failed: %v", err)
		}
	}

	target := a.webhook
	if webhookURL != "" {
		target = newWebhookAlerter(webhookURL)
	}
	if target == nil {
		// Alerting without a webhook is a valid state, not an error.
		klog.V(2).Info("alert webhook not configured, skipping dispatch")
		return false
	}

	if err := target.SendAlert(ctx, payload); err != nil {
		klog.Errorf("alert webhook delivery failed: %v", err)
		return false
	}
	return true
}
