package adapter

import "errors"

var (
	// ErrBadRequest is returned for HTTP 400: the remote could not parse the
	// batch. Retrying the same batch will not help.
	ErrBadRequest = errors.New("remote rejected request")

	// ErrUnauthorized is returned for HTTP 401: the bearer token is missing,
	// expired, or invalid.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrServerUnavailable is returned for HTTP 502/503: transient remote
	// outage, the batch stays queued for a later cycle.
	ErrServerUnavailable = errors.New("remote unavailable")

	// ErrInternalServerError is returned for HTTP 500.
	ErrInternalServerError = errors.New("remote internal error")
)
