package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/strikerhq/striker-auth/identity"
	"github.com/strikerhq/striker-auth/sessions"
)

// Response is the standard JSON envelope.
type Response struct {
	Code  string       `json:"code,omitempty"`
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries the failure shape clients branch on.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, code string, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Code: code, Data: data})
}

// Error writes the envelope for a domain error. Validation failures map to
// 400, missing records to 404, state collisions to 409; anything else is a
// 500 with a generic message so internals never leak to callers.
func Error(w http.ResponseWriter, err error) {
	status, code, message := classify(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Code:  code,
		Error: &ErrorDetail{Code: code, Message: message},
	})
}

func classify(err error) (status int, code, message string) {
	switch {
	case identity.IsValidation(err):
		return http.StatusBadRequest, "validation_error", err.Error()
	case identity.IsConflict(err):
		return http.StatusConflict, "conflict", err.Error()
	case errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, identity.ErrLinkNotFound),
		errors.Is(err, sessions.ErrSessionNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest, "bad_request", err.Error()
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

// ErrMalformedBody indicates an unreadable or invalid request body.
var ErrMalformedBody = errors.New("malformed request body")

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return ErrMalformedBody
	}
	return nil
}
