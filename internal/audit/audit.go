package audit

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// EventType categorizes a security-relevant mutation for log aggregators.
type EventType string

const (
	EventAccountStatusChanged    EventType = "ACCOUNT_STATUS_CHANGED"
	EventTenantStatusChanged     EventType = "TENANT_STATUS_CHANGED"
	EventTenantOwnershipTransfer EventType = "TENANT_OWNERSHIP_TRANSFERRED"
	EventGuestGranted            EventType = "GUEST_GRANTED"
	EventGuestRevoked            EventType = "GUEST_REVOKED"
	EventTOTPActivated           EventType = "TOTP_ACTIVATED"
	EventTOTPDisabled            EventType = "TOTP_DISABLED"
	EventConnectionStringIssued  EventType = "CONNECTION_STRING_ISSUED"
)

// AuditLogger is the low-level sink: one flattened metadata map per event.
// Satisfied by JSONAuditLogger in production and MockAuditLogger in tests.
type AuditLogger interface {
	Log(ctx context.Context, actorID uuid.UUID, action EventType, resource string, metadata map[string]string)
}

// JSONAuditLogger writes structured logs to stdout under a dedicated
// log_type so aggregators can route audit_event records to a separate
// index from ordinary application logs.
type JSONAuditLogger struct {
	logger *slog.Logger
}

func NewJSONAuditLogger() *JSONAuditLogger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &JSONAuditLogger{logger: slog.New(handler)}
}

func (l *JSONAuditLogger) Log(ctx context.Context, actorID uuid.UUID, action EventType, resource string, metadata map[string]string) {
	fields := []interface{}{
		slog.String("log_type", "AUDIT_TRAIL"),
		slog.String("actor_id", actorID.String()),
		slog.String("action", string(action)),
		slog.String("resource", resource),
		slog.Time("timestamp_utc", time.Now().UTC()),
	}

	for k, v := range metadata {
		fields = append(fields, slog.String("meta_"+k, v))
	}

	l.logger.InfoContext(ctx, "audit_event", fields...)
}

// MockAuditLogger discards every event; used by tests that need a Service
// but don't assert on its output.
type MockAuditLogger struct{}

func (m *MockAuditLogger) Log(ctx context.Context, actorID uuid.UUID, action EventType, resource string, metadata map[string]string) {
}
