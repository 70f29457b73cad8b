package ports

import (
	"context"
	"time"

	"meddispatch/internal/core/domain/model/kernel"
)

// RouteEstimate is the travel summary between two points.
type RouteEstimate struct {
	DistanceKm float64
	Duration   time.Duration
}

// RouteService estimates travel between a candidate and a delivery point.
// Estimates enrich offers and customer tracking; they never gate matching,
// which ranks by great-circle distance so a routing outage cannot stall
// dispatch.
type RouteService interface {
	// Estimate returns the road distance and expected travel time from
	// origin to destination.
	Estimate(ctx context.Context, origin, destination kernel.GeoPoint) (RouteEstimate, error)
}
