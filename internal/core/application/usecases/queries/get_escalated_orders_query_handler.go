package queries

import (
	"context"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetEscalatedOrdersQueryHandler retrieves orders waiting for manual
// assignment from the database, oldest escalations first.
type GetEscalatedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetEscalatedOrdersQueryHandler creates a handler for the work list query.
func NewGetEscalatedOrdersQueryHandler(db *gorm.DB) GetEscalatedOrdersQueryHandler {
	return GetEscalatedOrdersQueryHandler{db: db}
}

// Handle executes the query.
// The attempt count per role is computed from the jsonb ledger so an
// administrator can see how contested the order already is.
func (h GetEscalatedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetEscalatedOrdersQuery,
) ([]GetEscalatedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	responses := make([]GetEscalatedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			kind,
			status,
			delivery_lat,
			delivery_lon,
			(
				SELECT count(*)
				FROM jsonb_array_elements(attempts) AS attempt
				WHERE attempt->>'role' = CASE
					WHEN status = ? THEN 'provider'
					ELSE 'partner'
				END
			) AS attempt_count
		FROM orders
		WHERE status IN (?, ?)
		ORDER BY id
	`,
		order.StatusNeedManualAssignmentToPharmacy,
		order.StatusNeedManualAssignmentToPharmacy,
		order.StatusNeedManualAssignmentToDeliveryPartner,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id           uuid.UUID
			kind, status string
			lat, lon     float64
			attemptCount int
		)
		if err = rows.Scan(&id, &kind, &status, &lat, &lon, &attemptCount); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		point, pointErr := kernel.NewGeoPoint(lat, lon)
		if pointErr != nil {
			return nil, pointErr
		}

		role := order.RolePartner
		if order.Status(status) == order.StatusNeedManualAssignmentToPharmacy {
			role = order.RoleProvider
		}

		responses = append(responses, GetEscalatedOrdersQueryResponse{
			ID:            orderID,
			Kind:          order.Kind(kind),
			Role:          role,
			DeliveryPoint: point,
			AttemptCount:  attemptCount,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
