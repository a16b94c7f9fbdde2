package handler

import (
	"net/http"

	"github.com/mcoot/playerdb/internal/api/apierr"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NotFound handles requests that match no route
func NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, apierr.NewNotFoundError())
}

// MethodNotAllowed handles requests whose path matches a route but not its method
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, apierr.NewMethodNotAllowedError())
}
