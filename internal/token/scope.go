package token

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

// ScopeKind tags which ConnectionScope variant an opaque string encodes.
type ScopeKind string

const (
	ScopeKindRole   ScopeKind = "role"
	ScopeKindTenant ScopeKind = "tenant"
)

// PermissionedRole pairs a role name with the permission level it grants
// under the issued scope.
type PermissionedRole struct {
	Role       string         `json:"role"`
	Permission dtos.Permission `json:"permission"`
}

// ConnectionScope is the decoded form of an opaque scoped connection
// string: either a single role's permissions on one account, or an
// entire tenant's permissions.
type ConnectionScope interface {
	scopeKind() ScopeKind
}

// RoleWithPermissionsScope grants the permissioned roles over a single
// account inside a tenant.
type RoleWithPermissionsScope struct {
	TenantID          uuid.UUID          `json:"tenantId"`
	AccountID         uuid.UUID          `json:"accountId"`
	Expiration        time.Time          `json:"expiration"`
	PermissionedRoles []PermissionedRole `json:"permissionedRoles"`
}

func (RoleWithPermissionsScope) scopeKind() ScopeKind { return ScopeKindRole }

// TenantWithPermissionsScope grants the permissioned roles tenant-wide.
type TenantWithPermissionsScope struct {
	TenantID          uuid.UUID          `json:"tenantId"`
	Expiration        time.Time          `json:"expiration"`
	PermissionedRoles []PermissionedRole `json:"permissionedRoles"`
}

func (TenantWithPermissionsScope) scopeKind() ScopeKind { return ScopeKindTenant }

// scopeEnvelope is the tagged wire shape EncodeScope/DecodeScope exchange:
// a kind discriminator alongside the raw JSON payload for that variant.
type scopeEnvelope struct {
	Kind    ScopeKind       `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeScope reversibly encodes a ConnectionScope into an opaque
// base64url string: a JSON envelope tagging the variant, base64-wrapped
// so the result is safe to carry as a bearer token.
func EncodeScope(scope ConnectionScope) (string, error) {
	payload, err := json.Marshal(scope)
	if err != nil {
		return "", err
	}
	envelope, err := json.Marshal(scopeEnvelope{Kind: scope.scopeKind(), Payload: payload})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(envelope), nil
}

// DecodeScope reverses EncodeScope, returning the concrete ConnectionScope
// variant the opaque string was built from.
func DecodeScope(opaque string) (ConnectionScope, *mycerr.Error) {
	raw, err := base64.RawURLEncoding.DecodeString(opaque)
	if err != nil {
		return nil, mycerr.InvalidArgumentErr("malformed connection string encoding").WithCode(mycerr.MYC00020)
	}

	var envelope scopeEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, mycerr.InvalidArgumentErr("malformed connection string envelope").WithCode(mycerr.MYC00020)
	}

	switch envelope.Kind {
	case ScopeKindRole:
		var scope RoleWithPermissionsScope
		if err := json.Unmarshal(envelope.Payload, &scope); err != nil {
			return nil, mycerr.InvalidArgumentErr("malformed role scope payload").WithCode(mycerr.MYC00020)
		}
		return scope, nil
	case ScopeKindTenant:
		var scope TenantWithPermissionsScope
		if err := json.Unmarshal(envelope.Payload, &scope); err != nil {
			return nil, mycerr.InvalidArgumentErr("malformed tenant scope payload").WithCode(mycerr.MYC00020)
		}
		return scope, nil
	default:
		return nil, mycerr.InvalidArgumentErr("unknown connection scope kind: " + string(envelope.Kind)).WithCode(mycerr.MYC00020)
	}
}
