package core

import (
	"net/http"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/apimiddleware"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/token"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/usecase"
	"github.com/google/uuid"
)

type issueRoleConnectionStringRequest struct {
	TenantID  uuid.UUID                `json:"tenantId"`
	AccountID uuid.UUID                `json:"accountId"`
	Roles     []token.PermissionedRole `json:"roles"`
	TTLSeconds int64                   `json:"ttlSeconds"`
}

func (d Deps) issueRoleScopedConnectionString(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	var req issueRoleConnectionStringRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TTLSeconds <= 0 {
		apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("ttlSeconds must be positive"))
		return
	}

	opaque, merr := usecase.IssueRoleScopedConnectionString(
		r.Context(), profile, req.TenantID, req.AccountID, req.Roles,
		time.Duration(req.TTLSeconds)*time.Second, d.Issuer, d.now(),
	)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"connectionString": opaque})
}

type issueTenantConnectionStringRequest struct {
	TenantID   uuid.UUID                `json:"tenantId"`
	Roles      []token.PermissionedRole `json:"roles"`
	TTLSeconds int64                    `json:"ttlSeconds"`
}

func (d Deps) issueTenantScopedConnectionString(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	var req issueTenantConnectionStringRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TTLSeconds <= 0 {
		apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("ttlSeconds must be positive"))
		return
	}

	opaque, merr := usecase.IssueTenantScopedConnectionString(
		r.Context(), profile, req.TenantID, req.Roles,
		time.Duration(req.TTLSeconds)*time.Second, d.Issuer, d.now(),
	)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"connectionString": opaque})
}
