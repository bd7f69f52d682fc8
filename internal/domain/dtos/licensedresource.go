package dtos

import (
	"time"

	"github.com/google/uuid"
)

// LicensedResource is the atomic authorisation grant: it says that account
// AccID, inside TenantID, holds RoleName at Permission level over whatever
// resource the route policy cares about.
type LicensedResource struct {
	AccID      uuid.UUID
	TenantID   uuid.UUID
	RoleID     uuid.UUID
	AccName    string
	SysAcc     bool
	RoleName   string
	Permission Permission
	Verified   bool
}

// TenantOwnership records that a profile owns (not merely is guested into)
// a tenant, since a given point in time.
type TenantOwnership struct {
	Tenant uuid.UUID
	Since  time.Time
}
