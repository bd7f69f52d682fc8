package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// LogParams carries the optional actor/target/tenant/session identifiers a
// security-relevant mutation wants recorded alongside its audit entry.
type LogParams struct {
	ActorID   uuid.UUID
	TargetID  uuid.UUID
	TenantID  uuid.UUID
	SessionID uuid.UUID
	Metadata  map[string]interface{}
}

// Service is the contract internal/usecase calls from its security-relevant
// mutations (account status transitions, tenant ownership transfers, guest
// grants, TOTP enrollment). It is resolved to nil in call sites that were
// not given one, in which case logging is skipped rather than required.
type Service interface {
	Log(ctx context.Context, action EventType, params LogParams)
}

// LoggerService adapts an AuditLogger into Service, flattening LogParams'
// typed fields into the metadata map AuditLogger.Log expects.
type LoggerService struct {
	Logger AuditLogger
}

func NewLoggerService(logger AuditLogger) *LoggerService {
	return &LoggerService{Logger: logger}
}

func (s *LoggerService) Log(ctx context.Context, action EventType, params LogParams) {
	metadata := make(map[string]string, len(params.Metadata)+2)
	for k, v := range params.Metadata {
		metadata[k] = fmt.Sprintf("%v", v)
	}
	if params.TargetID != uuid.Nil {
		metadata["target_id"] = params.TargetID.String()
	}
	if params.SessionID != uuid.Nil {
		metadata["session_id"] = params.SessionID.String()
	}

	s.Logger.Log(ctx, params.ActorID, action, params.TenantID.String(), metadata)
}
