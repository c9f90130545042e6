// Package shared holds the JSON envelope helpers used by every handler.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "veritask/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteError translates a domain error into the HTTP error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	// Internal errors keep their detail out of responses.
	message := ""
	var de *dErrors.Error
	if errors.As(err, &de) && status < http.StatusInternalServerError {
		message = de.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   string(code),
		Message: message,
	})
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
