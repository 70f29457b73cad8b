package ports

import (
	"context"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
)

// Notifier pushes dispatch events to the parties that need to act on them.
//
// Notification is best effort: implementations log and swallow delivery
// failures, and callers never fail a state change because a push did not go
// out. State changes are the source of truth; pushes are a convenience.
type Notifier interface {
	// NotifyOffer tells a candidate it has a pending offer for the order.
	NotifyOffer(ctx context.Context, pushAddress string, orderID kernel.UUID, role order.Role)

	// NotifyCustomer tells the customer about an order status change.
	NotifyCustomer(ctx context.Context, customerID kernel.UUID, orderID kernel.UUID, status order.Status)

	// NotifyAdmins alerts administrators that an order needs manual assignment.
	NotifyAdmins(ctx context.Context, pushAddresses []string, orderID kernel.UUID, role order.Role)
}
