package identity

import (
	"context"
	"errors"

	"schedulify/models"
)

// ErrNotConnected is returned when no usable credential exists for a host:
// nothing cached, or silent renewal failed. The stored cache is never
// destroyed on a failed renewal; a later attempt may still succeed.
var ErrNotConnected = errors.New("host has not connected their Outlook calendar")

// ErrFlowExpired is returned when the pending sign-in record is missing:
// expired, or already consumed by an earlier attempt.
var ErrFlowExpired = errors.New("sign-in session expired or already used")

// Provider resolves usable access credentials for hosts and drives the
// interactive sign-in exchange.
type Provider interface {
	// AccessToken returns a valid bearer token for the host, silently
	// renewing from the cached refresh material and persisting any updated
	// cache write-through.
	AccessToken(ctx context.Context, host *models.Host) (string, error)
	// Connected reports whether a silent renewal currently succeeds.
	Connected(ctx context.Context, host *models.Host) bool
	// BeginAuthFlow stores a one-shot pending flow record and returns the
	// authorization URL to redirect the host to.
	BeginAuthFlow(ctx context.Context) (string, error)
	// CompleteAuthFlow consumes the pending flow record (exactly once,
	// success or failure), exchanges the authorization code, and upserts
	// the host profile with the captured identity.
	CompleteAuthFlow(ctx context.Context, state, code string) (*models.Host, error)
}
