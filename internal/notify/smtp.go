package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/crypto"
	"github.com/google/uuid"
)

// SMTPConfig is config.SMTPConfig's shape: operator-supplied connection
// details plus an AES-GCM-encrypted password, decrypted in-memory only
// for the duration of a single send.
type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	PassEncrypted string
	From          string
	TLSMode       string // "starttls" or "tls"
	KeyVersion    int
}

// SMTPSender delivers mail directly over SMTP: no outbox, no retry
// worker, matching the contract-only scope EmailSender is built for.
type SMTPSender struct {
	Config SMTPConfig
	Logger *slog.Logger
}

func NewSMTPSender(config SMTPConfig, logger *slog.Logger) (*SMTPSender, error) {
	if err := validateSMTPConfig(config.Host, config.Port); err != nil {
		return nil, fmt.Errorf("invalid smtp configuration: %w", err)
	}
	if _, err := sanitizeEmailAddress(config.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	return &SMTPSender{Config: config, Logger: logger}, nil
}

func (s *SMTPSender) SendInvitation(ctx context.Context, to, inviteURL string) error {
	return s.send(ctx, to, "You've been invited", fmt.Sprintf("Click here to accept your invitation: %s\n", inviteURL))
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, token, appURL string) error {
	link := fmt.Sprintf("%s/auth/reset?token=%s", appURL, token)
	return s.send(ctx, to, "Reset your password", fmt.Sprintf("Reset your password here: %s\nThis link expires in one hour.\n", link))
}

func (s *SMTPSender) SendVerification(ctx context.Context, to, token, appURL string) error {
	link := fmt.Sprintf("%s/auth/verify?token=%s", appURL, token)
	return s.send(ctx, to, "Verify your email address", fmt.Sprintf("Verify your email here: %s\n", link))
}

func (s *SMTPSender) SendTOTPChanged(ctx context.Context, to string, enabled bool) error {
	subject := "Two-factor authentication enabled"
	body := "Two-factor authentication was just enabled on your account.\n"
	if !enabled {
		subject = "Two-factor authentication disabled"
		body = "Two-factor authentication was just disabled on your account.\n"
	}
	return s.send(ctx, to, subject, body)
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	logger := s.Logger.With("to_hash", HashRecipient(to), "request_id", requestIDFromContext(ctx))

	if err := validateSMTPConfig(s.Config.Host, s.Config.Port); err != nil {
		logger.Error("smtp configuration failed revalidation", "error", err)
		return fmt.Errorf("smtp configuration rejected")
	}

	password, err := crypto.DecryptTenantSecretV(s.Config.PassEncrypted, s.Config.KeyVersion)
	if err != nil {
		logger.Error("failed to decrypt smtp password", "error", err)
		return fmt.Errorf("smtp authentication configuration error")
	}
	defer func() { password = "" }()

	toAddr, err := sanitizeEmailAddress(to)
	if err != nil {
		logger.Warn("rejected recipient address", "error", err)
		return fmt.Errorf("invalid recipient address")
	}
	fromAddr, err := sanitizeEmailAddress(s.Config.From)
	if err != nil {
		return fmt.Errorf("smtp configuration error")
	}

	message := buildMessage(fromAddr, toAddr, subject, body)

	serverAddr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	dialer := &net.Dialer{Timeout: 5 * time.Second}

	var conn net.Conn
	if s.Config.TLSMode == "tls" {
		conn, err = tls.DialWithDialer(dialer, "tcp", serverAddr, &tls.Config{ServerName: s.Config.Host, MinVersion: tls.VersionTLS12})
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", serverAddr)
	}
	if err != nil {
		logger.Error("smtp connection failed", "error", err)
		return fmt.Errorf("smtp connection failed")
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.Config.Host)
	if err != nil {
		return fmt.Errorf("smtp protocol error: %w", err)
	}
	defer client.Quit()

	if s.Config.TLSMode == "starttls" {
		if err := client.StartTLS(&tls.Config{ServerName: s.Config.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
	}

	if err := client.Auth(smtp.PlainAuth("", s.Config.User, password, s.Config.Host)); err != nil {
		logger.Error("smtp authentication failed")
		return fmt.Errorf("smtp authentication failed")
	}

	if err := client.Mail(fromAddr); err != nil {
		return fmt.Errorf("smtp mail command failed: %w", err)
	}
	if err := client.Rcpt(toAddr); err != nil {
		return fmt.Errorf("smtp rcpt command failed: %w", err)
	}
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data command failed: %w", err)
	}
	if _, err := writer.Write(message); err != nil {
		return fmt.Errorf("writing smtp payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing smtp payload: %w", err)
	}

	logger.Info("email sent")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("Message-ID: <" + uuid.NewString() + "@mycelium>\r\n")
	msg.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)
	return []byte(msg.String())
}

// sanitizeEmailAddress rejects CRLF injection in either the address or
// display name before it reaches a raw SMTP command.
func sanitizeEmailAddress(addr string) (string, error) {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return "", fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(parsed.Address, "\r\n") || strings.ContainsAny(parsed.Name, "\r\n") {
		return "", fmt.Errorf("crlf injection detected")
	}
	return parsed.String(), nil
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return id
	}
	return ""
}

type requestIDContextKey struct{}
