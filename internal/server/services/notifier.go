package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/internportal/internal/logging"
	"github.com/dmitrijs2005/internportal/internal/server/models"
)

// ResetNotifier delivers a password reset token to its owner out of band.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, user *models.User, token string, expiresAt time.Time) error
}

// LogNotifier writes reset tokens to the log. Suitable for development
// only, since anyone reading the logs can reset the password.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("component", "reset-notifier")}
}

func (n *LogNotifier) NotifyPasswordReset(ctx context.Context, user *models.User, token string, expiresAt time.Time) error {
	n.log.Info(ctx, "password reset requested",
		"user_id", user.ID,
		"email", user.Email,
		"token", token,
		"expires_at", expiresAt.Format(time.RFC3339),
	)
	return nil
}
