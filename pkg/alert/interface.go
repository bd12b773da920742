package alert

import (
	"context"

	"github.com/lantern-labs/beacon-backend/pkg/probe"
)

// AlertInterface is the notification component used after a health-check
// run. Dispatch is best-effort: it reports delivery as a boolean and never
// returns an error, so a broken alert channel cannot destabilize a caller.
type AlertInterface interface {
	// Dispatch delivers an alert for the failed subset of results.
	// webhookURL overrides the configured default when non-empty.
	// It returns true when the alert was delivered, or when there was
	// nothing to alert about; false when no webhook is configured or
	// delivery failed. The SMTP channel, when configured, is attempted
	// regardless of webhook state and never affects the return value.
	Dispatch(ctx context.Context, results []probe.Result, baseURL, webhookURL string) bool
}

// alertHandlerInterface is implemented by each concrete channel; the
// webhook robot and the SMTP mailer both satisfy it.
type alertHandlerInterface interface {
	SendAlert(ctx context.Context, payload *Payload) error
}
