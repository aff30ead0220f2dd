package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorResponse is the body of every failed request. The storefront reads
// message on non-2xx responses and shows it as-is.
type ErrorResponse struct {
	Message string `json:"message"`
}

// JSON writes data as the whole response body. Successful responses carry
// no wrapper: a listing is a bare array, a record is a bare object.
func JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// Error writes {"message": ...}. The status comes from the wrapped domain
// error; the message is the full error text.
func Error(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), ErrorResponse{Message: err.Error()})
}

// ErrorWithMessage writes {"message": ...} with an explicit status.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// StatusFor maps a domain error to its HTTP status. errors.Is walks the wrap
// chain, so wrapped sentinels match too. Anything unrecognized is a 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
