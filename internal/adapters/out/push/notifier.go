package push

import (
	"context"
	"log/slog"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"

	"github.com/hibiken/asynq"
)

// AsynqNotifier implements the Notifier port by enqueueing push tasks.
// Delivery is best effort: enqueue failures are logged and swallowed, never
// surfaced to the caller, because dispatch state changes must not depend on
// the queue being up.
type AsynqNotifier struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewAsynqNotifier creates a notifier backed by the given asynq client.
func NewAsynqNotifier(client *asynq.Client, logger *slog.Logger) *AsynqNotifier {
	return &AsynqNotifier{client: client, logger: logger}
}

// NotifyOffer tells a candidate it has a pending offer for the order.
func (n *AsynqNotifier) NotifyOffer(ctx context.Context, pushAddress string, orderID kernel.UUID, role order.Role) {
	if pushAddress == "" {
		return
	}
	n.enqueue(ctx, TaskOfferPush, OfferPushPayload{
		PushAddress: pushAddress,
		OrderID:     orderID.String(),
		Role:        role.String(),
	})
}

// NotifyCustomer tells the customer about an order status change.
func (n *AsynqNotifier) NotifyCustomer(ctx context.Context, customerID, orderID kernel.UUID, status order.Status) {
	n.enqueue(ctx, TaskCustomerPush, CustomerPushPayload{
		CustomerID: customerID.String(),
		OrderID:    orderID.String(),
		Status:     status.String(),
	})
}

// NotifyAdmins alerts administrators that an order needs manual assignment.
func (n *AsynqNotifier) NotifyAdmins(ctx context.Context, pushAddresses []string, orderID kernel.UUID, role order.Role) {
	if len(pushAddresses) == 0 {
		return
	}
	n.enqueue(ctx, TaskAdminPush, AdminPushPayload{
		PushAddresses: pushAddresses,
		OrderID:       orderID.String(),
		Role:          role.String(),
	})
}

func (n *AsynqNotifier) enqueue(ctx context.Context, taskType string, payload any) {
	task, err := newTask(taskType, payload)
	if err != nil {
		n.logger.ErrorContext(ctx, "build push task", "type", taskType, "error", err)
		return
	}

	if _, err = n.client.EnqueueContext(ctx, task); err != nil {
		n.logger.ErrorContext(ctx, "enqueue push task", "type", taskType, "error", err)
	}
}
