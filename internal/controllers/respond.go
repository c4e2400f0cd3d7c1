package controllers

import (
	"ecotracker/internal/providers"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// decodePayload reads a size-limited JSON body into dst and runs its
// validate tags. It writes the 400 response itself and reports success.
func decodePayload(w http.ResponseWriter, r *http.Request, logger providers.Logger, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "Bad payload on %s: %v", r.URL.Path, err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Bad Request"})
		return false
	}
	v := validate.Struct(dst)
	if !v.Validate() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: v.Errors.One()})
		return false
	}
	return true
}
