package dtos

import (
	"time"

	"github.com/google/uuid"
)

// TenantMetaKey enumerates the recognized tenant metadata keys. Arbitrary
// keys are rejected so the meta map stays a closed, well-known set rather
// than becoming an untyped bag.
type TenantMetaKey string

const (
	TenantMetaOfficialName TenantMetaKey = "official_name"
	TenantMetaContactEmail TenantMetaKey = "contact_email"
	TenantMetaDocument     TenantMetaKey = "document"
)

// TenantStatusKind enumerates the lifecycle events recorded in a Tenant's
// status history.
type TenantStatusKind string

const (
	TenantStatusActive   TenantStatusKind = "active"
	TenantStatusInactive TenantStatusKind = "inactive"
	TenantStatusArchived TenantStatusKind = "archived"
)

// TenantStatus is one entry in a Tenant's append-only status history.
type TenantStatus struct {
	Kind   TenantStatusKind
	Since  time.Time
	Actor  uuid.UUID
}

// Tenant is the top-level multi-tenancy boundary every Account and
// LicensedResource is scoped under.
type Tenant struct {
	ID          uuid.UUID
	Name        string
	Description string
	Owners      []Owner
	Meta        map[TenantMetaKey]string
	Status      []TenantStatus
}

// CurrentStatus returns the most recently recorded status, or
// TenantStatusActive if the tenant has no history yet (freshly created).
func (t Tenant) CurrentStatus() TenantStatusKind {
	if len(t.Status) == 0 {
		return TenantStatusActive
	}
	return t.Status[len(t.Status)-1].Kind
}

func (t Tenant) IsActive() bool { return t.CurrentStatus() == TenantStatusActive }
