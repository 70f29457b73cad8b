package commands

import (
	"errors"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new marketplace order
// and start provider matching for it.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, order.KindPharmacy, customerID,
//	    items, deliveryPoint, order.PaymentCashOnDelivery, "4821")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	kind             order.Kind
	customerID       kernel.UUID
	items            []order.Item
	deliveryPoint    kernel.GeoPoint
	paymentMethod    order.PaymentMethod
	verificationCode string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Item, coordinate, and payment validation is delegated to the domain types;
// the command only checks identifiers and presence.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	kind order.Kind,
	customerID kernel.UUID,
	items []order.Item,
	deliveryPoint kernel.GeoPoint,
	paymentMethod order.PaymentMethod,
	verificationCode string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setKind(kind),
		cmd.setCustomerID(customerID),
		cmd.setDeliveryPoint(deliveryPoint),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.items = append([]order.Item(nil), items...)
	cmd.verificationCode = verificationCode
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Kind returns whether the order is a pharmacy, lab, or mixed order.
func (c CreateOrderCommand) Kind() order.Kind {
	return c.kind
}

// CustomerID returns the ordering customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Items returns the order's line items.
func (c CreateOrderCommand) Items() []order.Item {
	return append([]order.Item(nil), c.items...)
}

// DeliveryPoint returns the delivery coordinate.
func (c CreateOrderCommand) DeliveryPoint() kernel.GeoPoint {
	return c.deliveryPoint
}

// PaymentMethod returns how the customer pays.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// VerificationCode returns the code the partner must present at handover.
func (c CreateOrderCommand) VerificationCode() string {
	return c.verificationCode
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setKind(kind order.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	c.kind = kind
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setDeliveryPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	c.deliveryPoint = point
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	c.paymentMethod = method
	return nil
}
