package directoryrepo

import (
	"context"
	"encoding/json"
	"errors"

	"meddispatch/internal/core/domain/model/candidate"
	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/core/ports"
	"meddispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEntityDirectory implements the EntityDirectory port over the
// registration tables. Delivery partner positions come from the live
// location cache; a partner that has not reported recently falls back to its
// registered base location.
type GormEntityDirectory struct {
	db        *gorm.DB
	locations ports.LocationCache
}

// NewGormEntityDirectory creates a directory backed by postgres and the
// live location cache.
func NewGormEntityDirectory(db *gorm.DB, locations ports.LocationCache) *GormEntityDirectory {
	return &GormEntityDirectory{db: db, locations: locations}
}

// FindAvailable returns available candidates for the role matching the filter.
func (d *GormEntityDirectory) FindAvailable(
	ctx context.Context,
	role order.Role,
	filter ports.CandidateFilter,
) ([]candidate.Candidate, error) {
	switch role {
	case order.RoleProvider:
		return d.findProviders(ctx, filter)
	case order.RolePartner:
		return d.findPartners(ctx, filter)
	default:
		return nil, errs.NewValueIsInvalidError("role")
	}
}

// FindCandidate returns a single candidate by id regardless of availability.
func (d *GormEntityDirectory) FindCandidate(
	ctx context.Context,
	role order.Role,
	id kernel.UUID,
) (candidate.Candidate, error) {
	if err := id.Validate(); err != nil {
		return candidate.Candidate{}, err
	}

	switch role {
	case order.RoleProvider:
		var dto ProviderDTO
		if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return candidate.Candidate{}, errs.NewObjectNotFoundError("provider", id.String())
			}
			return candidate.Candidate{}, err
		}
		return d.providerCandidate(dto)
	case order.RolePartner:
		var dto PartnerDTO
		if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return candidate.Candidate{}, errs.NewObjectNotFoundError("partner", id.String())
			}
			return candidate.Candidate{}, err
		}
		return d.partnerCandidate(ctx, dto)
	default:
		return candidate.Candidate{}, errs.NewValueIsInvalidError("role")
	}
}

// FindActiveAdmins returns the push addresses of active administrators.
func (d *GormEntityDirectory) FindActiveAdmins(ctx context.Context) ([]string, error) {
	var dtos []AdminDTO
	if err := d.db.WithContext(ctx).Find(&dtos, "active = ? AND push_address <> ''", true).Error; err != nil {
		return nil, err
	}

	addresses := make([]string, 0, len(dtos))
	for _, dto := range dtos {
		addresses = append(addresses, dto.PushAddress)
	}
	return addresses, nil
}

func (d *GormEntityDirectory) findProviders(
	ctx context.Context,
	filter ports.CandidateFilter,
) ([]candidate.Candidate, error) {
	query := d.db.WithContext(ctx).Where("available = ?", true)

	if len(filter.TestIDs) > 0 {
		required := make(TestsDTO, 0, len(filter.TestIDs))
		for _, id := range filter.TestIDs {
			required = append(required, id.String())
		}
		requiredJSON, err := json.Marshal(required)
		if err != nil {
			return nil, err
		}
		query = query.Where("tests @> ?", string(requiredJSON))
	}

	if ids := rawIDs(filter.ExcludeIDs); len(ids) > 0 {
		query = query.Where("id NOT IN ?", ids)
	}

	var dtos []ProviderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	candidates := make([]candidate.Candidate, 0, len(dtos))
	for _, dto := range dtos {
		c, err := d.providerCandidate(dto)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (d *GormEntityDirectory) findPartners(
	ctx context.Context,
	filter ports.CandidateFilter,
) ([]candidate.Candidate, error) {
	query := d.db.WithContext(ctx).Where("available = ?", true)
	if ids := rawIDs(filter.ExcludeIDs); len(ids) > 0 {
		query = query.Where("id NOT IN ?", ids)
	}

	var dtos []PartnerDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	candidates := make([]candidate.Candidate, 0, len(dtos))
	for _, dto := range dtos {
		c, err := d.partnerCandidate(ctx, dto)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (d *GormEntityDirectory) providerCandidate(dto ProviderDTO) (candidate.Candidate, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return candidate.Candidate{}, err
	}

	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return candidate.Candidate{}, err
	}

	return candidate.NewCandidate(id, order.RoleProvider, point, dto.PushAddress)
}

func (d *GormEntityDirectory) partnerCandidate(ctx context.Context, dto PartnerDTO) (candidate.Candidate, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return candidate.Candidate{}, err
	}

	point, err := d.locations.GetLocation(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		point, err = kernel.NewGeoPoint(dto.BaseLat, dto.BaseLon)
	}
	if err != nil {
		return candidate.Candidate{}, err
	}

	return candidate.NewCandidate(id, order.RolePartner, point, dto.PushAddress)
}

func rawIDs(ids []kernel.UUID) []uuid.UUID {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return raw
}
