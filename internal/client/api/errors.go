package api

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sanguischat/internal/client/gateway"
)

var (
	ErrUnavailable     = gateway.ErrUnavailable
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// Error is an application-level failure reported by the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports a 401 as ErrUnauthorized.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Message returns the text to show the user for err: the backend message
// for application errors, fallback for anything else.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, ErrUnavailable):
		return "An error occurred. Please try again."
	case errors.Is(err, ErrUnexpectedShape):
		return "Unexpected response from server"
	}
	return fallback
}
