package ports

import (
	"context"

	"meddispatch/internal/core/domain/model/kernel"
)

// LocationCache stores the last reported live location of delivery partners.
// Entries expire so a partner that stops reporting drops out of ranking
// instead of being matched against a stale position.
type LocationCache interface {
	// SetLocation records the partner's current position.
	SetLocation(ctx context.Context, partnerID kernel.UUID, location kernel.GeoPoint) error

	// GetLocation returns the partner's last known position.
	// Returns an ObjectNotFoundError when no fresh position exists.
	GetLocation(ctx context.Context, partnerID kernel.UUID) (kernel.GeoPoint, error)
}
