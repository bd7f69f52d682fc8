// Package notify sends transactional email on behalf of use-cases that
// need to reach a user outside the request/response cycle: guest
// invitations, password resets, TOTP enrollment changes. EmailSender is
// the only contract the use-case layer depends on; SMTPSender and
// DevSender are the two implementations operators choose between via
// config.SMTPConfig.
package notify

import (
	"context"
	"log/slog"
)

// EmailSender is the contract internal/usecase depends on to reach a
// user's inbox.
type EmailSender interface {
	SendInvitation(ctx context.Context, to, inviteURL string) error
	SendPasswordReset(ctx context.Context, to, token, appURL string) error
	SendVerification(ctx context.Context, to, token, appURL string) error
	SendTOTPChanged(ctx context.Context, to string, enabled bool) error
}

// DevSender logs every email instead of delivering it — the default
// outside a production SMTP config.
type DevSender struct {
	Logger *slog.Logger
}

func (s *DevSender) SendInvitation(ctx context.Context, to, inviteURL string) error {
	s.Logger.InfoContext(ctx, "email: invitation", "to_hash", HashRecipient(to), "url", inviteURL)
	return nil
}

func (s *DevSender) SendPasswordReset(ctx context.Context, to, token, appURL string) error {
	s.Logger.InfoContext(ctx, "email: password reset", "to_hash", HashRecipient(to), "link", appURL+"/auth/reset?token="+token)
	return nil
}

func (s *DevSender) SendVerification(ctx context.Context, to, token, appURL string) error {
	s.Logger.InfoContext(ctx, "email: verification", "to_hash", HashRecipient(to), "link", appURL+"/auth/verify?token="+token)
	return nil
}

func (s *DevSender) SendTOTPChanged(ctx context.Context, to string, enabled bool) error {
	s.Logger.InfoContext(ctx, "email: totp changed", "to_hash", HashRecipient(to), "enabled", enabled)
	return nil
}
