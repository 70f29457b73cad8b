// Package queries contains read-only operations for the dispatch system.
// Implements the Query side of the CQRS architecture: handlers read
// projections straight from the database, bypassing the aggregate, and
// enrich them with data from external services where useful.
package queries

import (
	"errors"
	"time"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its dispatch state for customer
// tracking screens.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	resp, err := handler.Handle(ctx, query)
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order id.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderItemResponse is one line item of the order projection.
type GetOrderItemResponse struct {
	ProductID kernel.UUID
	Name      string
	Quantity  int
}

// GetOrderQueryResponse is the tracking projection of one order.
// EstimatedArrival is populated only while the order is out for delivery and
// the partner's live location and a route estimate are both available.
type GetOrderQueryResponse struct {
	ID               kernel.UUID
	Kind             order.Kind
	Status           order.Status
	Items            []GetOrderItemResponse
	DeliveryPoint    kernel.GeoPoint
	ProviderID       *kernel.UUID
	PartnerID        *kernel.UUID
	PaymentMethod    order.PaymentMethod
	PaymentStatus    order.PaymentStatus
	EstimatedArrival *time.Duration
}
