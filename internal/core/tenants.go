package core

import (
	"net/http"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/apimiddleware"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// tenantIDFromPath injects the {tenantID} path param into context under the
// same key TenantContext would have used from the header, so
// apimiddleware.RequireTenantOwnership can gate path-addressed tenant
// routes exactly as it gates header-addressed ones.
func tenantIDFromPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("malformed tenant id"))
			return
		}
		next.ServeHTTP(w, r.WithContext(apimiddleware.WithTenantID(r.Context(), tenantID)))
	})
}

type createTenantRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d Deps) createTenant(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	var req createTenantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, merr := usecase.CreateTenant(r.Context(), profile, req.Name, req.Description, d.Tenants)
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

var tenantTransitionsByName = map[string]usecase.TenantStatusTransitionKind{
	"activate":   usecase.TenantTransitionActivate,
	"deactivate": usecase.TenantTransitionDeactivate,
	"archive":    usecase.TenantTransitionArchive,
}

type tenantStatusRequest struct {
	Transition string `json:"transition"`
}

func (d Deps) tenantFromPath(w http.ResponseWriter, r *http.Request) (dtos.Tenant, bool) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("malformed tenant id"))
		return dtos.Tenant{}, false
	}
	resp, merr := d.Tenants.Get(r.Context(), tenantID)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return dtos.Tenant{}, false
	}
	if !resp.IsFound() {
		apimiddleware.WriteError(w, mycerr.FetchingErr("tenant not found"))
		return dtos.Tenant{}, false
	}
	return resp.Value(), true
}

func (d Deps) updateTenantStatus(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	tenant, ok := d.tenantFromPath(w, r)
	if !ok {
		return
	}

	var req tenantStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	transition, ok := tenantTransitionsByName[req.Transition]
	if !ok {
		apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("unknown tenant status transition: "+req.Transition))
		return
	}

	resp, merr := usecase.UpdateTenantStatus(r.Context(), profile, tenant, transition, d.now(), d.Tenants, d.Audit)
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

type transferOwnershipRequest struct {
	NewOwners []dtos.Owner `json:"newOwners"`
}

func (d Deps) transferTenantOwnership(w http.ResponseWriter, r *http.Request) {
	profile := apimiddleware.MustGetProfile(r.Context())

	tenant, ok := d.tenantFromPath(w, r)
	if !ok {
		return
	}

	var req transferOwnershipRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, merr := usecase.TransferTenantOwnership(r.Context(), profile, tenant, req.NewOwners, d.Tenants, d.Audit)
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
