package apierr

import (
	"errors"
	"net/http"

	"github.com/mcoot/playerdb/internal/api/response"
	"github.com/mcoot/playerdb/internal/model"
	"github.com/mcoot/playerdb/internal/query"
	"github.com/mcoot/playerdb/internal/storage"
	"github.com/mcoot/playerdb/internal/validation"
)

// ErrorResponse is the body of every error response.
// Validation failures only fill Errors; store failures also carry SQL.
type ErrorResponse struct {
	Error  string                  `json:"error,omitempty"`
	Code   string                  `json:"code,omitempty"`
	SQL    string                  `json:"sql,omitempty"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidID        = "INVALID_ID"
	CodeUnknownColumn    = "UNKNOWN_COLUMN"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeStoreError       = "STORE_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an error body
type httpError struct {
	status int
	body   ErrorResponse
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.body.Error
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	response.JSON(w, he.status, he.body)
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		return &httpError{http.StatusUnprocessableEntity, ErrorResponse{Errors: verr.Fields}}
	}

	var serr *storage.Error
	if errors.As(err, &serr) {
		return &httpError{http.StatusInternalServerError, ErrorResponse{
			Error: serr.Message(),
			Code:  CodeStoreError,
			SQL:   serr.SQL,
		}}
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, ErrorResponse{Error: "player not found", Code: CodePlayerNotFound}}
	case errors.Is(err, query.ErrUnknownColumn):
		return &httpError{http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeUnknownColumn}}
	default:
		return &httpError{http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternalError}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidRequest}}
}

// NewInvalidIDError creates an error for a malformed path id
func NewInvalidIDError(raw string) error {
	return &httpError{http.StatusBadRequest, ErrorResponse{Error: "invalid player id: " + raw, Code: CodeInvalidID}}
}

// NewNotFoundError creates an error for an unknown route
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, ErrorResponse{Error: "not found", Code: CodeNotFound}}
}

// NewMethodNotAllowedError creates an error for a known path with the wrong method
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed", Code: CodeMethodNotAllowed}}
}

// NewRateLimitedError creates a too many requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded", Code: CodeRateLimited}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternalError}}
}
