package core

import (
	"net/http"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/apimiddleware"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/usecase"
)

// registerUserDefaultAccountRequest carries everything needed to create a
// brand-new User and its personal default Account in one call. This route
// runs outside apimiddleware.ProfileFromHeader: there is no Profile yet,
// since the User being created is the Profile's eventual subject.
type registerUserDefaultAccountRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	AccountName string `json:"accountName"`
	AccountSlug string `json:"accountSlug"`
}

func (d Deps) registerUserDefaultAccount(w http.ResponseWriter, r *http.Request) {
	var req registerUserDefaultAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email, err := dtos.Parse(req.Email)
	if err != nil {
		apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("malformed email: "+err.Error()))
		return
	}

	hash, err := d.Hasher.Hash(req.Password)
	if err != nil {
		apimiddleware.WriteError(w, mycerr.ExecutionErr("hashing password: "+err.Error()))
		return
	}

	now := d.now()
	user := dtos.NewUser(email, req.Username, now)
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.IsActive = true
	user.IsPrincipal = true
	user.Provider = dtos.ProviderOfInternal(hash)

	userResp, merr := d.Users.Create(r.Context(), user)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	if !userResp.IsCreated() {
		writeJSON(w, http.StatusConflict, map[string]string{"reason": userResp.Reason()})
		return
	}
	createdUser := userResp.Value()

	accountResp, merr := usecase.RegisterUserDefaultAccount(
		r.Context(), email, req.AccountName, req.AccountSlug, createdUser, d.Users, d.Accounts, now,
	)
	if merr != nil {
		apimiddleware.WriteError(w, merr)
		return
	}
	if !accountResp.IsCreated() {
		writeJSON(w, http.StatusConflict, map[string]string{"reason": accountResp.Reason()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":    createdUser,
		"account": accountResp.Value(),
	})
}
