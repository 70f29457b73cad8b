package queries

import (
	"errors"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/pkg/guard"
)

var ErrGetEscalatedOrdersQueryIsNotConstructed = errors.New(
	"GetEscalatedOrdersQuery must be created via NewGetEscalatedOrdersQuery constructor",
)

// GetEscalatedOrdersQuery retrieves every order waiting for manual assignment.
// Backs the administrator work list.
//
// Example:
//
//	query := NewGetEscalatedOrdersQuery()
//	escalated, err := handler.Handle(ctx, query)
type GetEscalatedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetEscalatedOrdersQuery creates a query for the manual-assignment work list.
// This is a parameterless query.
func NewGetEscalatedOrdersQuery() GetEscalatedOrdersQuery {
	return GetEscalatedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetEscalatedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetEscalatedOrdersQueryIsNotConstructed)
}

// GetEscalatedOrdersQueryResponse is one work list entry: the order, which
// role needs a manual pick, where it delivers to, and how many candidates
// were already attempted for that role.
type GetEscalatedOrdersQueryResponse struct {
	ID            kernel.UUID
	Kind          order.Kind
	Role          order.Role
	DeliveryPoint kernel.GeoPoint
	AttemptCount  int
}
