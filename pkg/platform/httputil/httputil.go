package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"luminary/pkg/platform/sentinel"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON error envelope shared by all endpoints.
type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteError translates an error into the JSON error envelope. Sentinel
// errors map to their natural HTTP status; everything else is an internal
// error whose message is withheld from the client.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Error: "internal_error"}

	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		status = http.StatusNotFound
		body = errorBody{Error: "not_found", Description: err.Error()}
	case errors.Is(err, sentinel.ErrConflict):
		status = http.StatusConflict
		body = errorBody{Error: "conflict", Description: err.Error()}
	case errors.Is(err, sentinel.ErrInvalidState):
		status = http.StatusConflict
		body = errorBody{Error: "invalid_state", Description: err.Error()}
	case errors.Is(err, sentinel.ErrUnavailable):
		status = http.StatusServiceUnavailable
		body = errorBody{Error: "unavailable"}
	}

	WriteJSON(w, status, body)
}

// BadRequest writes a 400 with the given description.
func BadRequest(w http.ResponseWriter, description string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Description: description})
}

// Unauthorized writes a 401 with a fixed envelope.
func Unauthorized(w http.ResponseWriter) {
	WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", Description: "Invalid or expired token"})
}

// Forbidden writes a 403 with a fixed envelope.
func Forbidden(w http.ResponseWriter) {
	WriteJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
}
