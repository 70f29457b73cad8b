package ports

import (
	"context"

	"meddispatch/internal/core/domain/model/candidate"
	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
)

// CandidateFilter narrows a directory query to candidates able to serve a
// specific order.
type CandidateFilter struct {
	// Origin is the delivery point candidates will be ranked against.
	Origin kernel.GeoPoint

	// TestIDs restricts provider results to diagnostic centers offering every
	// listed test. Empty for pure medicine orders.
	TestIDs []kernel.UUID

	// ExcludeIDs removes candidates already present in the order's attempt
	// ledger so a rejected candidate never reappears.
	ExcludeIDs []kernel.UUID
}

// EntityDirectory is the read-side contract for assignable entities.
// The directory is owned by an upstream registration system; this service
// only queries it and never caches results across matching passes.
type EntityDirectory interface {
	// FindAvailable returns currently available candidates for the role
	// matching the filter. An empty result is a normal outcome that leads
	// to escalation, not an error.
	FindAvailable(ctx context.Context, role order.Role, filter CandidateFilter) ([]candidate.Candidate, error)

	// FindCandidate returns a single candidate by id regardless of
	// availability. Used by manual assignment, where an administrator's
	// explicit choice overrides availability.
	FindCandidate(ctx context.Context, role order.Role, id kernel.UUID) (candidate.Candidate, error)

	// FindActiveAdmins returns the push addresses of administrators who
	// should be alerted when an order escalates to manual assignment.
	FindActiveAdmins(ctx context.Context) ([]string, error)
}
