package service

import "errors"

var (
	// ErrSignedOut is returned when an operation requiring an active
	// identity is called while no user is set.
	ErrSignedOut = errors.New("no active identity")

	// ErrDestroyed is returned when the engine has been torn down.
	ErrDestroyed = errors.New("engine destroyed")
)
