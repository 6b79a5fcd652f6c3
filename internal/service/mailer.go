package service

import (
	"context"
	"log/slog"
)

// LogMailer writes outgoing mail to the log instead of delivering it.
// Deployments plug a real Mailer in at wiring time.
type LogMailer struct {
	Log *slog.Logger
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.Log.Info("mail", "to", to, "subject", subject, "body", body)
	return nil
}
