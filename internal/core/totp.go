package core

import (
	"net/http"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/apimiddleware"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/usecase"
)

// profileUser resolves the dtos.User behind the calling Profile's default
// account owner. TOTP enrollment is a self-service operation: there is no
// path parameter, only whoever the Gateway already authenticated.
func (d Deps) profileUser(w http.ResponseWriter, r *http.Request) (dtos.User, bool) {
	profile := apimiddleware.MustGetProfile(r.Context())
	if len(profile.Owners) == 0 {
		apimiddleware.WriteError(w, mycerr.FetchingErr("profile carries no owner").WithCode(mycerr.MYC00009))
		return dtos.User{}, false
	}

	resp, merr := d.Users.Get(r.Context(), profile.Owners[0].ID)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return dtos.User{}, false
	}
	if !resp.IsFound() {
		apimiddleware.WriteError(w, mycerr.FetchingErr("user not found").WithCode(mycerr.MYC00009))
		return dtos.User{}, false
	}
	return resp.Value(), true
}

func (d Deps) startTOTPActivation(w http.ResponseWriter, r *http.Request) {
	user, ok := d.profileUser(w, r)
	if !ok {
		return
	}

	url, resp, merr := usecase.StartTOTPActivation(r.Context(), user, d.TOTPIssuer, d.MasterSecret, d.MFA, d.Users)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	if !resp.IsUpdated() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"reason": resp.Reason()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type finishTOTPRequest struct {
	Code string `json:"code"`
}

func (d Deps) finishTOTPActivation(w http.ResponseWriter, r *http.Request) {
	user, ok := d.profileUser(w, r)
	if !ok {
		return
	}

	var req finishTOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, merr := usecase.FinishTOTPActivation(r.Context(), user, req.Code, d.MasterSecret, d.MFA, d.Users, d.Audit)
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

func (d Deps) disableTOTP(w http.ResponseWriter, r *http.Request) {
	user, ok := d.profileUser(w, r)
	if !ok {
		return
	}

	resp, merr := usecase.DisableTOTP(r.Context(), user, d.Users, d.Audit)
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
