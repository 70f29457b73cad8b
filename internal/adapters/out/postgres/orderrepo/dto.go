// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, storing the attempt ledger and candidate queue as jsonb columns
// so the whole dispatch state is written in a single conditional update.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The version column drives optimistic concurrency: every update is
// conditional on the version the aggregate was read at.
type OrderDTO struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Kind             string      `gorm:"type:varchar(16)"`
	CustomerID       uuid.UUID   `gorm:"type:uuid;index"`
	Items            ItemsDTO    `gorm:"type:jsonb"`
	DeliveryLat      float64     `gorm:"type:double precision"`
	DeliveryLon      float64     `gorm:"type:double precision"`
	Status           string      `gorm:"type:varchar(64);index"`
	ProviderID       *uuid.UUID  `gorm:"type:uuid;index"`
	PartnerID        *uuid.UUID  `gorm:"type:uuid;index"`
	Queue            QueueDTO    `gorm:"type:jsonb"`
	Attempts         AttemptsDTO `gorm:"type:jsonb"`
	PaymentMethod    string      `gorm:"type:varchar(16)"`
	PaymentStatus    string      `gorm:"type:varchar(16)"`
	VerificationCode string      `gorm:"type:varchar(32)"`
	Version          int
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is the jsonb representation of one order line.
type ItemDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// ItemsDTO serializes order lines into a single jsonb column.
type ItemsDTO []ItemDTO

func (d ItemsDTO) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *ItemsDTO) Scan(value any) error {
	return scanJSON(value, d)
}

// AttemptDTO is the jsonb representation of one attempt ledger row.
type AttemptDTO struct {
	CandidateID string     `json:"candidate_id"`
	Role        string     `json:"role"`
	Outcome     string     `json:"outcome"`
	OfferedAt   time.Time  `json:"offered_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// AttemptsDTO serializes the append-only attempt ledger into a jsonb column.
type AttemptsDTO []AttemptDTO

func (d AttemptsDTO) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *AttemptsDTO) Scan(value any) error {
	return scanJSON(value, d)
}

// QueueDTO serializes the remaining candidate queue into a jsonb column.
type QueueDTO []string

func (d QueueDTO) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *QueueDTO) Scan(value any) error {
	return scanJSON(value, d)
}

func scanJSON(value, target any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, target)
	case string:
		return json.Unmarshal([]byte(v), target)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make(ItemsDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ProductID: item.ProductID().String(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
		})
	}

	queue := make(QueueDTO, 0, len(aggregate.Queue()))
	for _, id := range aggregate.Queue() {
		queue = append(queue, id.String())
	}

	attempts := make(AttemptsDTO, 0, len(aggregate.Attempts()))
	for _, attempt := range aggregate.Attempts() {
		attempts = append(attempts, AttemptDTO{
			CandidateID: attempt.CandidateID().String(),
			Role:        attempt.Role().String(),
			Outcome:     string(attempt.Outcome()),
			OfferedAt:   attempt.OfferedAt(),
			ResolvedAt:  attempt.ResolvedAt(),
		})
	}

	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		Kind:             string(aggregate.Kind()),
		CustomerID:       aggregate.CustomerID().Bytes(),
		Items:            items,
		DeliveryLat:      aggregate.DeliveryPoint().Latitude(),
		DeliveryLon:      aggregate.DeliveryPoint().Longitude(),
		Status:           aggregate.Status().String(),
		ProviderID:       rawUUID(aggregate.Provider()),
		PartnerID:        rawUUID(aggregate.Partner()),
		Queue:            queue,
		Attempts:         attempts,
		PaymentMethod:    string(aggregate.PaymentMethod()),
		PaymentStatus:    string(aggregate.PaymentStatus()),
		VerificationCode: aggregate.VerificationCode(),
		Version:          aggregate.Version(),
	}
}

// toDomain converts a database DTO to an order aggregate.
// Every component is revalidated so corrupted rows surface on read.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(dto.DeliveryLat, dto.DeliveryLon)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, itemErr := kernel.UUIDFromString(itemDTO.ProductID)
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewItem(productID, itemDTO.Name, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	queue := make([]kernel.UUID, 0, len(dto.Queue))
	for _, raw := range dto.Queue {
		queued, queueErr := kernel.UUIDFromString(raw)
		if queueErr != nil {
			return nil, queueErr
		}
		queue = append(queue, queued)
	}

	attempts := make([]order.Attempt, 0, len(dto.Attempts))
	for _, attemptDTO := range dto.Attempts {
		candidateID, attemptErr := kernel.UUIDFromString(attemptDTO.CandidateID)
		if attemptErr != nil {
			return nil, attemptErr
		}
		attempt, attemptErr := order.RestoreAttempt(
			candidateID,
			order.Role(attemptDTO.Role),
			order.Outcome(attemptDTO.Outcome),
			attemptDTO.OfferedAt,
			attemptDTO.ResolvedAt,
		)
		if attemptErr != nil {
			return nil, attemptErr
		}
		attempts = append(attempts, attempt)
	}

	providerID, err := domainUUID(dto.ProviderID)
	if err != nil {
		return nil, err
	}
	partnerID, err := domainUUID(dto.PartnerID)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		order.Kind(dto.Kind),
		customerID,
		items,
		point,
		order.Status(dto.Status),
		providerID,
		partnerID,
		queue,
		attempts,
		order.PaymentMethod(dto.PaymentMethod),
		order.PaymentStatus(dto.PaymentStatus),
		dto.VerificationCode,
		dto.Version,
	)
}

func rawUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
