package http

// Request and response bodies for the dispatch API.

// CreateOrderRequest is the body of POST /api/orders.
type CreateOrderRequest struct {
	Kind             string             `json:"kind"`
	CustomerID       string             `json:"customer_id"`
	Items            []OrderItemRequest `json:"items"`
	DeliveryLat      float64            `json:"delivery_lat"`
	DeliveryLon      float64            `json:"delivery_lon"`
	PaymentMethod    string             `json:"payment_method"`
	VerificationCode string             `json:"verification_code"`
}

// OrderItemRequest is one line item of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderResponse returns the id assigned to a newly created order.
type CreateOrderResponse struct {
	ID string `json:"id"`
}

// RespondToAssignmentRequest is the body of POST /api/orders/:id/respond.
type RespondToAssignmentRequest struct {
	Role        string `json:"role"`
	CandidateID string `json:"candidate_id"`
	Accepted    bool   `json:"accepted"`
}

// CancelOrderRequest is the body of POST /api/orders/:id/cancel.
type CancelOrderRequest struct {
	CustomerID string `json:"customer_id"`
}

// ConfirmPickupRequest is the body of POST /api/orders/:id/pickup.
type ConfirmPickupRequest struct {
	PartnerID string `json:"partner_id"`
}

// ConfirmDeliveryRequest is the body of POST /api/orders/:id/delivery.
type ConfirmDeliveryRequest struct {
	PartnerID        string `json:"partner_id"`
	VerificationCode string `json:"verification_code"`
}

// ManualAssignRequest is the body of POST /api/orders/:id/assign.
type ManualAssignRequest struct {
	Role        string `json:"role"`
	CandidateID string `json:"candidate_id"`
}

// UpdateLocationRequest is the body of PUT /api/partners/:id/location.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// OrderItemResponse is one line item of an order projection.
type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse is the tracking projection of one order.
type OrderResponse struct {
	ID                   string              `json:"id"`
	Kind                 string              `json:"kind"`
	Status               string              `json:"status"`
	Items                []OrderItemResponse `json:"items"`
	DeliveryLat          float64             `json:"delivery_lat"`
	DeliveryLon          float64             `json:"delivery_lon"`
	ProviderID           *string             `json:"provider_id,omitempty"`
	PartnerID            *string             `json:"partner_id,omitempty"`
	PaymentMethod        string              `json:"payment_method"`
	PaymentStatus        string              `json:"payment_status"`
	EstimatedArrivalSecs *int64              `json:"estimated_arrival_secs,omitempty"`
}

// EscalatedOrderResponse is one row of the manual-assignment work list.
type EscalatedOrderResponse struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	Role         string  `json:"role"`
	DeliveryLat  float64 `json:"delivery_lat"`
	DeliveryLon  float64 `json:"delivery_lon"`
	AttemptCount int     `json:"attempt_count"`
}

// Error is the body returned on any failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
