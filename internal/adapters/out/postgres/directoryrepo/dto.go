// Package directoryrepo implements the entity directory port over the
// registration tables: providers (pharmacies and diagnostic centers),
// delivery partners, and administrators. The directory is read-only for this
// service; rows are written by the upstream registration system.
package directoryrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ProviderDTO is one registered pharmacy or diagnostic center.
// Tests holds the ids of diagnostic tests the facility offers, empty for
// pure pharmacies.
type ProviderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Lat         float64   `gorm:"type:double precision"`
	Lon         float64   `gorm:"type:double precision"`
	Available   bool      `gorm:"index"`
	PushAddress string    `gorm:"type:varchar(255)"`
	Tests       TestsDTO  `gorm:"type:jsonb"`
}

// TableName specifies the database table name for providers.
func (ProviderDTO) TableName() string {
	return "providers"
}

// PartnerDTO is one registered delivery partner. BaseLat/BaseLon is the
// partner's registered base; the live location cache overrides it while the
// partner is reporting positions.
type PartnerDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BaseLat     float64   `gorm:"type:double precision"`
	BaseLon     float64   `gorm:"type:double precision"`
	Available   bool      `gorm:"index"`
	PushAddress string    `gorm:"type:varchar(255)"`
}

// TableName specifies the database table name for delivery partners.
func (PartnerDTO) TableName() string {
	return "delivery_partners"
}

// AdminDTO is one administrator who can resolve escalated orders.
type AdminDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Active      bool      `gorm:"index"`
	PushAddress string    `gorm:"type:varchar(255)"`
}

// TableName specifies the database table name for administrators.
func (AdminDTO) TableName() string {
	return "administrators"
}

// TestsDTO serializes the offered test ids into a jsonb column so eligibility
// can be checked with a containment query.
type TestsDTO []string

func (d TestsDTO) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *TestsDTO) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}
