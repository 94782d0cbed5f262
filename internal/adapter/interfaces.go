// Package adapter provides the transport layer between the sync engine and
// the remote sync endpoint.
//
// The primary abstraction is [ServerAdapter], which decouples the engine from
// the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]) with two delivery paths: the confirmed batch push,
// whose per-operation verdicts drive queue removal, and the fire-and-forget
// beacon used at teardown time when no response can be waited for.
//
// Transport-level errors are mapped to the sentinel values in errors.go so
// that callers can use [errors.Is] without knowing the protocol.
package adapter

import (
	"context"

	"github.com/brickfolio/localsync/models"
)

//go:generate mockgen -destination=../mock/server_adapter_mock.go -package=mock github.com/brickfolio/localsync/internal/adapter ServerAdapter

// ServerAdapter defines transport-agnostic communication with the remote
// sync endpoint. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to
// the sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// PushBatch delivers a batch of queued operations and returns the
	// remote's per-operation verdict. A transport integrity hash covering
	// the operations is computed and attached automatically. A non-2xx
	// response or a network error yields an error and no verdict; the caller
	// must keep the whole batch queued.
	PushBatch(ctx context.Context, req models.PushRequest) (models.PushResponse, error)

	// SendBeacon hands off a pre-serialised push body on the send-only
	// beacon path. No application-level result is observable; the return
	// value only reports whether the attempt was handed to the transport.
	SendBeacon(body []byte) bool
}
