package core

import (
	"net/http"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/apimiddleware"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type grantGuestRequest struct {
	TenantID     uuid.UUID  `json:"tenantId"`
	AccountID    uuid.UUID  `json:"accountId"`
	GuestRoleID  uuid.UUID  `json:"guestRoleId"`
	UserID       uuid.UUID  `json:"userId"`
	ParentRoleID *uuid.UUID `json:"parentRoleId,omitempty"`
}

func (d Deps) roleMap(r *http.Request) (map[uuid.UUID]dtos.GuestRole, *mycerr.Error) {
	listed, merr := d.GuestRoles.List(r.Context())
	if merr != nil {
		return nil, merr
	}
	roles := make(map[uuid.UUID]dtos.GuestRole, len(listed.Records()))
	for _, role := range listed.Records() {
		roles[role.ID] = role
	}
	return roles, nil
}

func (d Deps) grantGuest(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	var req grantGuestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	roles, merr := d.roleMap(r)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}

	resp, merr := usecase.GuestUserToAccount(
		r.Context(), profile, req.TenantID, req.AccountID, req.GuestRoleID, req.UserID,
		req.ParentRoleID, roles, d.Guests, d.Audit,
	)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	if !resp.IsCreated() {
		writeJSON(w, http.StatusConflict, map[string]string{"reason": resp.Reason()})
		return
	}
	writeJSON(w, http.StatusCreated, resp.Value())
}

type revokeGuestRequest struct {
	TenantID uuid.UUID `json:"tenantId"`
}

func (d Deps) revokeGuest(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	grantID, err := uuid.Parse(chi.URLParam(r, "grantID"))
	if err != nil {
		apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("malformed grant id"))
		return
	}

	var req revokeGuestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, merr := usecase.RevokeGuestFromAccount(r.Context(), profile, req.TenantID, grantID, d.Guests, d.Audit)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	if !resp.IsDeleted() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"reason": resp.Reason()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d Deps) verifyGuest(w http.ResponseWriter, r *http.Request) {
	grantID, err := uuid.Parse(chi.URLParam(r, "grantID"))
	if err != nil {
		apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("malformed grant id"))
		return
	}

	grants, merr := d.Guests.ListByAccount(r.Context(), grantID)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	grant, ok := findGrant(grants.Records(), grantID)
	if !ok {
		apimiddleware.WriteError(w, mycerr.FetchingErr("guest grant not found"))
		return
	}

	resp, merr := usecase.VerifyGuestUserOnAccount(r.Context(), grant, d.Guests, time.Now())
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	if !resp.IsUpdated() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"reason": resp.Reason()})
		return
	}
	writeJSON(w, http.StatusOK, resp.Value())
}

func findGrant(grants []ports.GuestUserOnAccount, id uuid.UUID) (ports.GuestUserOnAccount, bool) {
	for _, g := range grants {
		if g.ID == id {
			return g, true
		}
	}
	return ports.GuestUserOnAccount{}, false
}

type updateFlagsRequest struct {
	TenantID    uuid.UUID `json:"tenantId"`
	GuestRoleID uuid.UUID `json:"guestRoleId"`
	AccountID   uuid.UUID `json:"accountId"`
	PermitFlags []string  `json:"permitFlags"`
	DenyFlags   []string  `json:"denyFlags"`
}

func (d Deps) updateGuestFlags(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	var req updateFlagsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, merr := usecase.UpdateFlagsFromSubscriptionAccount(
		r.Context(), profile, req.TenantID, req.GuestRoleID, req.AccountID,
		req.PermitFlags, req.DenyFlags, d.Accounts, d.Guests, d.Guests,
	)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	if !resp.IsUpdated() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"reason": resp.Reason()})
		return
	}
	writeJSON(w, http.StatusOK, resp.Value())
}
