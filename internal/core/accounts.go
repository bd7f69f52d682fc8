package core

import (
	"context"
	"net/http"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/apimiddleware"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/relatedaccounts"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ownedAccountRequest struct {
	TenantID    uuid.UUID   `json:"tenantId"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	OwnerIDs    []uuid.UUID `json:"ownerIds"`
	RoleName    string      `json:"roleName,omitempty"`
	ReadRoleID  uuid.UUID   `json:"readRoleId,omitempty"`
	WriteRoleID uuid.UUID   `json:"writeRoleId,omitempty"`
	Actor       string      `json:"actor,omitempty"`
}

func (d Deps) resolveOwners(ctx context.Context, ids []uuid.UUID) ([]dtos.User, *mycerr.Error) {
	owners := make([]dtos.User, 0, len(ids))
	for _, id := range ids {
		resp, merr := d.Users.Get(ctx, id)
		if merr != nil {
			return nil, merr
		}
		if !resp.IsFound() {
			return nil, mycerr.FetchingErr("owner not found").WithCode(mycerr.MYC00009)
		}
		owners = append(owners, resp.Value())
	}
	return owners, nil
}

func (d Deps) registerSubscriptionAccount(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	var req ownedAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owners, merr := d.resolveOwners(r.Context(), req.OwnerIDs)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}

	resp, merr := usecase.RegisterSubscriptionAccount(r.Context(), profile, req.TenantID, req.Name, req.Slug, owners, d.Accounts, d.Accounts, d.now())
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

func (d Deps) registerTenantManagerAccount(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	var req ownedAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owners, merr := d.resolveOwners(r.Context(), req.OwnerIDs)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}

	resp, merr := usecase.RegisterTenantManagerAccount(r.Context(), profile, req.TenantID, req.Name, req.Slug, owners, d.Accounts, d.Accounts, d.now())
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

func (d Deps) registerRoleAssociatedAccount(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	var req ownedAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owners, merr := d.resolveOwners(r.Context(), req.OwnerIDs)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}

	resp, merr := usecase.RegisterRoleAssociatedAccount(
		r.Context(), profile, req.TenantID, req.Name, req.Slug, req.RoleName,
		req.ReadRoleID, req.WriteRoleID, owners, d.Accounts, d.Accounts, d.now(),
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

func (d Deps) registerActorAssociatedAccount(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	var req ownedAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owners, merr := d.resolveOwners(r.Context(), req.OwnerIDs)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}

	resp, merr := usecase.RegisterActorAssociatedAccount(r.Context(), profile, req.Name, req.Slug, req.Actor, owners, d.Accounts, d.now())
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

var accountTransitionsByName = map[string]usecase.AccountStatusTransitionKind{
	"approve":    usecase.TransitionApprove,
	"disapprove": usecase.TransitionDisapprove,
	"archive":    usecase.TransitionArchive,
	"unarchive":  usecase.TransitionUnarchive,
	"deactivate": usecase.TransitionDeactivate,
	"activate":   usecase.TransitionActivate,
}

type accountStatusRequest struct {
	Transition string `json:"transition"`
}

func (d Deps) updateAccountStatus(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("malformed account id"))
		return
	}

	var req accountStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	transition, ok := accountTransitionsByName[req.Transition]
	if !ok {
		apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("unknown account status transition: "+req.Transition))
		return
	}

	existing, merr := d.Accounts.Get(r.Context(), accountID, mustRelatedAccounts(profile))
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	if !existing.IsFound() {
		apimiddleware.WriteError(w, mycerr.FetchingErr("account not found"))
		return
	}

	resp, merr := usecase.UpdateAccountStatus(r.Context(), profile, existing.Value(), transition, d.Accounts, d.Audit)
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

// mustRelatedAccounts derives the RelatedAccounts grant a Profile already
// carries, falling back to an empty (nothing-allowed) grant when the
// Profile itself has insufficient licenses; the downstream fetch then
// fails with a not-found rather than this handler panicking.
func mustRelatedAccounts(profile dtos.Profile) relatedaccounts.RelatedAccounts {
	related, _ := profile.GetRelatedAccountOrError()
	return related
}
