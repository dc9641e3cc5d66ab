// Package server provides the HTTP REST API for the team quoting service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mcabrera/teamquote/internal/schemas"
	"github.com/mcabrera/teamquote/internal/wizard"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrQuoteNotFound indicates no quote exists under the given id
type ErrQuoteNotFound struct {
	QuoteID uuid.UUID
}

func (e *ErrQuoteNotFound) Error() string {
	return fmt.Sprintf("quote not found: %s", e.QuoteID)
}

// ErrSessionNotFound indicates no active wizard session exists for the id
type ErrSessionNotFound struct {
	QuoteID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("no active wizard session: %s", e.QuoteID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		wizardErr *wizard.ValidationError
		schemaErr *schemas.ValidationError
	)
	if errors.As(err, &wizardErr) || errors.As(err, &schemaErr) {
		return http.StatusBadRequest
	}

	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrQuoteNotFound, *ErrSessionNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
