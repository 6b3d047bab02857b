package api

import (
	"encoding/json"
	"net/http"

	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/observability"
)

type errorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeConfig, errs.ErrCodeInvalidFormat, errs.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errs.ErrCodeUnconfiguredContext:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, StatusFor(code), errorResponse{
		RequestID: RequestID(r.Context()),
		Code:      string(code),
		Message:   errs.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
