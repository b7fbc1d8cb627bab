package main

import (
	"errors"
	"net/http"

	"budgethub/pkg/exchange"

	"github.com/gin-gonic/gin"
)

// Error kinds surfaced by the service layer. Handlers map these to HTTP
// statuses in respondError; nothing below the handler layer touches gin.
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("unauthorized access")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("invalid credentials")
)

// validationError wraps ErrValidation with the offending field so the
// client can see what to fix.
func validationError(msg string) error {
	return &fieldError{kind: ErrValidation, msg: msg}
}

func notFoundError(what string) error {
	return &fieldError{kind: ErrNotFound, msg: what + " not found"}
}

func conflictError(msg string) error {
	return &fieldError{kind: ErrConflict, msg: msg}
}

type fieldError struct {
	kind error
	msg  string
}

func (e *fieldError) Error() string { return e.msg }
func (e *fieldError) Unwrap() error { return e.kind }

// respondError writes the JSON error body for a service-layer failure.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, exchange.ErrUnknownCurrency):
		status = http.StatusBadRequest
	case errors.Is(err, exchange.ErrRateUnavailable):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
