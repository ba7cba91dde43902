package service

import (
	"context"
	"log/slog"

	"inkwell/internal/middleware"
)

// Mailer delivers account e-mails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, username, resetURL string) error
}

// LogMailer writes messages to the structured log instead of sending them.
type LogMailer struct {
	From string
}

// NewLogMailer returns a LogMailer that signs messages as from.
func NewLogMailer(from string) *LogMailer {
	return &LogMailer{From: from}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, username, resetURL string) error {
	middleware.Logger.InfoContext(ctx, "password reset mail",
		slog.String("from", m.From),
		slog.String("to", to),
		slog.String("username", username),
		slog.String("reset_url", resetURL),
	)
	return nil
}
