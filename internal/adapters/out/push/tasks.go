// Package push delivers dispatch notifications through an asynq task queue.
// A separate worker fleet drains the queue and talks to the actual push
// gateways, so a gateway outage backs up in redis instead of slowing
// dispatch down.
package push

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TaskOfferPush notifies a candidate of a pending offer.
	TaskOfferPush = "push:offer"
	// TaskCustomerPush notifies a customer of an order status change.
	TaskCustomerPush = "push:customer"
	// TaskAdminPush alerts administrators about an escalated order.
	TaskAdminPush = "push:admin"
)

// OfferPushPayload carries an offer notification to the worker.
type OfferPushPayload struct {
	PushAddress string `json:"push_address"`
	OrderID     string `json:"order_id"`
	Role        string `json:"role"`
}

// CustomerPushPayload carries a status change notification to the worker.
type CustomerPushPayload struct {
	CustomerID string `json:"customer_id"`
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
}

// AdminPushPayload carries an escalation alert to the worker.
type AdminPushPayload struct {
	PushAddresses []string `json:"push_addresses"`
	OrderID       string   `json:"order_id"`
	Role          string   `json:"role"`
}

func newTask(taskType string, payload any) (*asynq.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, raw), nil
}
