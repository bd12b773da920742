package alert

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/lantern-labs/beacon-backend/pkg/config"
	"github.com/lantern-labs/beacon-backend/pkg/logutils"
)

const mailSubject = "Beacon health check alert"

// smtpAlerter mails the alert to the configured notify address. It is an
// optional secondary channel next to the webhook.
type smtpAlerter struct {
	dialer *gomail.Dialer
	from   string
	notify string
}

func newSMTPAlerter(conf *config.Config) *smtpAlerter {
	smtpConf := conf.Alert.SMTP
	return &smtpAlerter{
		dialer: gomail.NewDialer(smtpConf.Host, smtpConf.Port, smtpConf.User, smtpConf.Password),
		from:   smtpConf.From,
		notify: smtpConf.Notify,
	}
}

func (sa *smtpAlerter) SendAlert(_ context.Context, payload *Payload) error {
	m := gomail.NewMessage()
	m.SetHeader("From", sa.from)
	m.SetHeader("To", sa.notify)
	m.SetHeader("Subject", mailSubject)
	m.SetBody("text/plain", payload.PlainText())

	if err := sa.dialer.DialAndSend(m); err != nil {
		logutils.Log.Errorf("Failed to send email to %s: %v", sa.notify, err)
		return err
	}
	logutils.Log.Infof("Sent alert email to %s", sa.notify)
	return nil
}
