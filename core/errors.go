package core

import (
	"errors"
	"fmt"
)

// Error categories surfaced by the query services. The HTTP layer maps
// them onto status codes with errors.Is.
var (
	// ErrInvalidArgument indicates a malformed or empty request
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates the requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrUpstream indicates the storage collaborator failed
	ErrUpstream = errors.New("upstream failure")
)

// InvalidArgumentf wraps ErrInvalidArgument with a formatted message.
func InvalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Upstream wraps a storage error so that callers can classify it while the
// original cause stays reachable through errors.Is/As.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrUpstream) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}
