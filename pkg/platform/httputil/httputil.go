// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "countryapi/pkg/domain-errors"
)

const internalErrorMessage = "An internal error occurred"

// ErrorResponse is the JSON envelope for every non-2xx response.
type ErrorResponse struct {
	Error         string   `json:"error"`
	Code          string   `json:"code"`
	Details       string   `json:"details,omitempty"`
	InvalidParams []string `json:"invalid_params,omitempty"`
}

// WriteJSON encodes body as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates err into a status and ErrorResponse. Errors without a
// domain code, and internal errors, never expose their message.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: internalErrorMessage,
			Code:  string(dErrors.CodeInternal),
		})
		return
	}

	resp := ErrorResponse{
		Error:         de.Message,
		Code:          string(de.Code),
		Details:       de.Details,
		InvalidParams: de.Params,
	}
	if de.Code == dErrors.CodeInternal {
		resp = ErrorResponse{Error: internalErrorMessage, Code: string(dErrors.CodeInternal)}
	}
	WriteJSON(w, dErrors.ToHTTPStatus(de.Code), resp)
}
