package core

import (
	"encoding/json"
	"net/http"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/apimiddleware"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apimiddleware.WriteError(w, mycerr.InvalidArgumentErr("malformed request body: "+err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
