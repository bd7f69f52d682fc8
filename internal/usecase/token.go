package usecase

import (
	"context"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/token"
	"github.com/google/uuid"
)

// IssueRoleScopedConnectionString mints an opaque connection string
// granting the given permissioned roles over a single account inside a
// tenant. Authority over tenantID is enforced by Issuer.IssueConnectionString
// itself, not re-checked here.
func IssueRoleScopedConnectionString(
	ctx context.Context,
	profile dtos.Profile,
	tenantID, accountID uuid.UUID,
	roles []token.PermissionedRole,
	ttl time.Duration,
	issuer *token.Issuer,
	now time.Time,
) (string, *mycerr.Error) {
	return issuer.IssueConnectionString(ctx, profile, token.RoleWithPermissionsScope{
		TenantID:          tenantID,
		AccountID:         accountID,
		Expiration:        now.Add(ttl),
		PermissionedRoles: roles,
	})
}

// IssueTenantScopedConnectionString mints an opaque connection string
// granting the given permissioned roles tenant-wide.
func IssueTenantScopedConnectionString(
	ctx context.Context,
	profile dtos.Profile,
	tenantID uuid.UUID,
	roles []token.PermissionedRole,
	ttl time.Duration,
	issuer *token.Issuer,
	now time.Time,
) (string, *mycerr.Error) {
	return issuer.IssueConnectionString(ctx, profile, token.TenantWithPermissionsScope{
		TenantID:          tenantID,
		Expiration:        now.Add(ttl),
		PermissionedRoles: roles,
	})
}
