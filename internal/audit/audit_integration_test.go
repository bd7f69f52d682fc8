package audit_test

import (
	"context"
	"testing"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/audit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	actorID  uuid.UUID
	action   audit.EventType
	resource string
	metadata map[string]string
	calls    int
}

func (r *recordingLogger) Log(ctx context.Context, actorID uuid.UUID, action audit.EventType, resource string, metadata map[string]string) {
	r.actorID = actorID
	r.action = action
	r.resource = resource
	r.metadata = metadata
	r.calls++
}

func TestLoggerServiceFlattensParamsIntoMetadata(t *testing.T) {
	recorder := &recordingLogger{}
	svc := audit.NewLoggerService(recorder)

	actorID := uuid.New()
	targetID := uuid.New()
	sessionID := uuid.New()
	tenantID := uuid.New()

	svc.Log(context.Background(), audit.EventAccountStatusChanged, audit.LogParams{
		ActorID:   actorID,
		TargetID:  targetID,
		TenantID:  tenantID,
		SessionID: sessionID,
		Metadata:  map[string]interface{}{"transition": "deactivate"},
	})

	require.Equal(t, 1, recorder.calls)
	assert.Equal(t, actorID, recorder.actorID)
	assert.Equal(t, audit.EventAccountStatusChanged, recorder.action)
	assert.Equal(t, tenantID.String(), recorder.resource)
	assert.Equal(t, targetID.String(), recorder.metadata["target_id"])
	assert.Equal(t, sessionID.String(), recorder.metadata["session_id"])
	assert.Equal(t, "deactivate", recorder.metadata["transition"])
}

func TestLoggerServiceOmitsNilIdentifiers(t *testing.T) {
	recorder := &recordingLogger{}
	svc := audit.NewLoggerService(recorder)

	svc.Log(context.Background(), audit.EventGuestRevoked, audit.LogParams{
		ActorID: uuid.New(),
	})

	require.Equal(t, 1, recorder.calls)
	_, hasTarget := recorder.metadata["target_id"]
	_, hasSession := recorder.metadata["session_id"]
	assert.False(t, hasTarget)
	assert.False(t, hasSession)
}
