package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/core/ports"
	"meddispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads the order projection from the database and, for
// orders out for delivery, enriches it with an arrival estimate computed from
// the partner's live location. Enrichment is best effort: a cache miss or a
// routing outage returns the projection without an estimate.
type GetOrderQueryHandler struct {
	db        *gorm.DB
	locations ports.LocationCache
	routes    ports.RouteService
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
func NewGetOrderQueryHandler(db *gorm.DB, locations ports.LocationCache, routes ports.RouteService) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, locations: locations, routes: routes}
}

// Handle executes the query.
// Returns an ObjectNotFoundError when no such order exists.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			kind,
			status,
			items,
			delivery_lat,
			delivery_lon,
			provider_id,
			partner_id,
			payment_method,
			payment_status
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id             uuid.UUID
		kind, status   string
		itemsJSON      []byte
		lat, lon       float64
		providerID     uuid.NullUUID
		partnerID      uuid.NullUUID
		payMethod      string
		payStatus      string
	)
	err := row.Scan(&id, &kind, &status, &itemsJSON, &lat, &lon,
		&providerID, &partnerID, &payMethod, &payStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := buildOrderResponse(id, kind, status, itemsJSON, lat, lon, providerID, partnerID, payMethod, payStatus)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	h.enrichArrival(ctx, &resp)
	return resp, nil
}

func buildOrderResponse(
	id uuid.UUID,
	kind, status string,
	itemsJSON []byte,
	lat, lon float64,
	providerID, partnerID uuid.NullUUID,
	payMethod, payStatus string,
) (GetOrderQueryResponse, error) {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	items, err := decodeItems(itemsJSON)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp := GetOrderQueryResponse{
		ID:            orderID,
		Kind:          order.Kind(kind),
		Status:        order.Status(status),
		Items:         items,
		DeliveryPoint: point,
		PaymentMethod: order.PaymentMethod(payMethod),
		PaymentStatus: order.PaymentStatus(payStatus),
	}

	if resp.ProviderID, err = nullableUUID(providerID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.PartnerID, err = nullableUUID(partnerID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	return resp, nil
}

// enrichArrival attaches an ETA while the partner is en route. Any failure
// along the way simply leaves the estimate empty.
func (h GetOrderQueryHandler) enrichArrival(ctx context.Context, resp *GetOrderQueryResponse) {
	if resp.Status != order.StatusOutForDelivery || resp.PartnerID == nil {
		return
	}

	partnerLocation, err := h.locations.GetLocation(ctx, *resp.PartnerID)
	if err != nil {
		return
	}

	estimate, err := h.routes.Estimate(ctx, partnerLocation, resp.DeliveryPoint)
	if err != nil {
		return
	}

	duration := estimate.Duration
	resp.EstimatedArrival = &duration
}

type itemDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

func decodeItems(itemsJSON []byte) ([]GetOrderItemResponse, error) {
	var dtos []itemDTO
	if err := json.Unmarshal(itemsJSON, &dtos); err != nil {
		return nil, err
	}

	items := make([]GetOrderItemResponse, 0, len(dtos))
	for _, dto := range dtos {
		productID, err := kernel.UUIDFromString(dto.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, GetOrderItemResponse{
			ProductID: productID,
			Name:      dto.Name,
			Quantity:  dto.Quantity,
		})
	}
	return items, nil
}

func nullableUUID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
