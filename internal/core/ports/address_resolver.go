package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// AddressResolver turns coordinates into a human-readable address. It must
// return within a bounded time; failure is an UpstreamUnavailableError.
type AddressResolver interface {
	Resolve(ctx context.Context, location kernel.Location) (string, error)
}
