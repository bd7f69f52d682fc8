package dtos

import (
	"time"

	"github.com/google/uuid"
)

// AccountTypeKind tags which variant of AccountType a value holds.
type AccountTypeKind int

const (
	AccountTypeUser AccountTypeKind = iota
	AccountTypeStaff
	AccountTypeManager
	AccountTypeSubscription
	AccountTypeTenantManager
	AccountTypeRoleAssociated
	AccountTypeActorAssociated
)

// AccountType is the tagged union describing why an Account exists. Only
// the fields relevant to Kind are populated; use the constructors below
// rather than building one by hand.
type AccountType struct {
	Kind         AccountTypeKind
	TenantID     uuid.UUID
	RoleName     string
	ReadRoleID   uuid.UUID
	WriteRoleID  uuid.UUID
	Actor        string
}

func AccountTypeOfUser() AccountType    { return AccountType{Kind: AccountTypeUser} }
func AccountTypeOfStaff() AccountType   { return AccountType{Kind: AccountTypeStaff} }
func AccountTypeOfManager() AccountType { return AccountType{Kind: AccountTypeManager} }

func AccountTypeOfSubscription(tenantID uuid.UUID) AccountType {
	return AccountType{Kind: AccountTypeSubscription, TenantID: tenantID}
}

func AccountTypeOfTenantManager(tenantID uuid.UUID) AccountType {
	return AccountType{Kind: AccountTypeTenantManager, TenantID: tenantID}
}

func AccountTypeOfRoleAssociated(tenantID uuid.UUID, roleName string, readRoleID, writeRoleID uuid.UUID) AccountType {
	return AccountType{
		Kind:        AccountTypeRoleAssociated,
		TenantID:    tenantID,
		RoleName:    roleName,
		ReadRoleID:  readRoleID,
		WriteRoleID: writeRoleID,
	}
}

func AccountTypeOfActorAssociated(actor string) AccountType {
	return AccountType{Kind: AccountTypeActorAssociated, Actor: actor}
}

// Account is the identity container every Profile eventually resolves
// back to. Lifecycle flags are independent bits; VerboseStatus is derived
// from them on every read, never stored as the source of truth.
type Account struct {
	ID            uuid.UUID
	Name          string
	Slug          string
	TenantID      *uuid.UUID
	AccountType   AccountType
	IsActive      bool
	IsChecked     bool
	IsArchived    bool
	IsDeleted     bool
	IsDefault     bool
	Owners        []User
	Created       time.Time
	Updated       *time.Time
}

// VerboseStatus recomputes the human-facing status from the account's
// current flags; callers must never read a cached value off storage.
func (a Account) VerboseStatus() VerboseStatus {
	return ComputeVerboseStatus(a.IsActive, a.IsChecked, a.IsArchived, a.IsDeleted)
}

// PrincipalOwner returns the single owner flagged IsPrincipal, if any.
func (a Account) PrincipalOwner() (User, bool) {
	for _, o := range a.Owners {
		if o.IsPrincipal {
			return o, true
		}
	}
	return User{}, false
}

// registrationAccount centralises the flag defaults shared by every one
// of the five registration constructors below: new accounts start
// active, unchecked (pending approval), not archived, not deleted.
func registrationAccount(name, slug string, accountType AccountType, owners []User, created time.Time) Account {
	return Account{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug,
		AccountType: accountType,
		IsActive:    true,
		IsChecked:   false,
		IsArchived:  false,
		IsDeleted:   false,
		IsDefault:   false,
		Owners:      owners,
		Created:     created,
	}
}

// NewSubscriptionAccount registers a tenant-scoped legal-entity account —
// the only account type eligible to receive guest grants.
func NewSubscriptionAccount(name, slug string, tenantID uuid.UUID, owners []User, created time.Time) Account {
	a := registrationAccount(name, slug, AccountTypeOfSubscription(tenantID), owners, created)
	a.TenantID = &tenantID
	return a
}

// NewTenantManagerAccount registers the privileged account that manages a
// single tenant's configuration.
func NewTenantManagerAccount(name, slug string, tenantID uuid.UUID, owners []User, created time.Time) Account {
	a := registrationAccount(name, slug, AccountTypeOfTenantManager(tenantID), owners, created)
	a.TenantID = &tenantID
	return a
}

// NewUserDefaultAccount registers the default, unprivileged personal
// account every registered User owns.
func NewUserDefaultAccount(name, slug string, owner User, created time.Time) Account {
	a := registrationAccount(name, slug, AccountTypeOfUser(), []User{owner}, created)
	a.IsDefault = true
	return a
}

// NewRoleAssociatedAccount registers a service-style account whose
// identity is a named role rather than a human user.
func NewRoleAssociatedAccount(name, slug string, tenantID uuid.UUID, roleName string, readRoleID, writeRoleID uuid.UUID, owners []User, created time.Time) Account {
	a := registrationAccount(name, slug, AccountTypeOfRoleAssociated(tenantID, roleName, readRoleID, writeRoleID), owners, created)
	a.TenantID = &tenantID
	return a
}

// NewActorAssociatedAccount registers a system-actor account (webhooks,
// background workers) associated with a named actor rather than a role.
func NewActorAssociatedAccount(name, slug, actor string, owners []User, created time.Time) Account {
	return registrationAccount(name, slug, AccountTypeOfActorAssociated(actor), owners, created)
}
