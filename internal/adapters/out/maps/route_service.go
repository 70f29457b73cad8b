// Package maps implements the RouteService port on the Google Maps
// Directions API.
package maps

import (
	"context"
	"fmt"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/ports"
	"meddispatch/internal/pkg/errs"

	"googlemaps.github.io/maps"
)

// GoogleRouteService estimates road travel using the Directions API in
// driving mode.
type GoogleRouteService struct {
	client *maps.Client
}

// NewGoogleRouteService creates a route service with the given API key.
func NewGoogleRouteService(apiKey string) (*GoogleRouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleRouteService{client: client}, nil
}

// Estimate returns the road distance and expected travel time from origin to
// destination.
func (s *GoogleRouteService) Estimate(
	ctx context.Context,
	origin, destination kernel.GeoPoint,
) (ports.RouteEstimate, error) {
	request := &maps.DirectionsRequest{
		Origin:      latLng(origin),
		Destination: latLng(destination),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, request)
	if err != nil {
		return ports.RouteEstimate{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return ports.RouteEstimate{}, errs.NewObjectNotFoundError("route",
			fmt.Sprintf("%s -> %s", origin, destination))
	}

	leg := routes[0].Legs[0]
	return ports.RouteEstimate{
		DistanceKm: float64(leg.Distance.Meters) / 1000.0,
		Duration:   leg.Duration,
	}, nil
}

func latLng(point kernel.GeoPoint) string {
	return fmt.Sprintf("%f,%f", point.Latitude(), point.Longitude())
}
