package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the whole aggregate back, conditional on the version it was
// read at, and bumps the version. Zero affected rows means a concurrent
// writer committed first; the caller gets a ConflictError and must re-read.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":         dto.Status,
			"provider_id":    dto.ProviderID,
			"partner_id":     dto.PartnerID,
			"queue":          dto.Queue,
			"attempts":       dto.Attempts,
			"payment_status": dto.PaymentStatus,
			"version":        dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("order",
			fmt.Sprintf("order %s changed since version %d was read", aggregate.ID(), dto.Version))
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID with its full ledger and queue.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllEscalated retrieves every order waiting for manual assignment.
func (r *GormOrderRepository) GetAllEscalated(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status IN ?", []string{
			order.StatusNeedManualAssignmentToPharmacy.String(),
			order.StatusNeedManualAssignmentToDeliveryPartner.String(),
		}).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetAllWithStaleAttempts retrieves orders whose pending attempt was offered
// before the cutoff. The ledger lives in jsonb, so the filter casts the
// offered_at element to a timestamp inside the database.
func (r *GormOrderRepository) GetAllWithStaleAttempts(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			order.StatusAssignedToPharmacy.String(),
			order.StatusAssignedToDeliveryPartner.String(),
		}).
		Where(`EXISTS (
			SELECT 1 FROM jsonb_array_elements(attempts) AS attempt
			WHERE attempt->>'outcome' = 'pending'
			AND (attempt->>'offered_at')::timestamptz < ?
		)`, cutoff).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
