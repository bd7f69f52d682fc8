package apimiddleware

import (
	"encoding/json"
	"net/http"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
)

// StatusForError maps a Mycelium error to the HTTP status code every
// handler — and the Gateway's own error responses — must answer with.
// Unauthenticated (missing/invalid credentials, MYC00013) and unauthorised
// (authenticated but insufficient privilege, MYC00019) must answer with
// different statuses, so both are dispatched on code ahead of the Kind
// switch rather than folded into it — MYC00019 in particular is raised as
// KindExecution at its call sites (matching the decision-failure kind the
// use-case layer raises), which would otherwise fall through to 500.
func StatusForError(merr *mycerr.Error) int {
	if merr.HasCode(mycerr.MYC00013) {
		return http.StatusUnauthorized
	}
	if merr.HasCode(mycerr.MYC00019) {
		return http.StatusForbidden
	}

	switch merr.Kind {
	case mycerr.KindInvalidArgument:
		return http.StatusBadRequest
	case mycerr.KindUseCase:
		return http.StatusForbidden
	case mycerr.KindFetching:
		return http.StatusNotFound
	case mycerr.KindCreation:
		return http.StatusConflict
	case mycerr.KindUpdating, mycerr.KindDeletion:
		return http.StatusUnprocessableEntity
	case mycerr.KindInvalidRepository, mycerr.KindExecution, mycerr.KindDataTransfer, mycerr.KindGeneral, mycerr.KindUndefined:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError renders merr as the stable {code, message} JSON body with the
// status StatusForError selects.
func WriteError(w http.ResponseWriter, merr *mycerr.Error) {
	code := "none"
	if len(merr.Codes) > 0 {
		code = merr.Codes[0]
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusForError(merr))
	json.NewEncoder(w).Encode(errorBody{Code: code, Message: merr.Message})
}
