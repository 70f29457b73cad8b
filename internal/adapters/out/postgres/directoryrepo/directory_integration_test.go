package directoryrepo_test

import (
	"context"
	"testing"
	"time"

	"meddispatch/internal/adapters/out/postgres/directoryrepo"
	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/core/ports"
	"meddispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// stubLocationCache serves canned live positions so partner lookups can be
// tested without redis. Partners missing from the map behave like expired
// cache entries.
type stubLocationCache struct {
	positions map[kernel.UUID]kernel.GeoPoint
}

func (s *stubLocationCache) SetLocation(_ context.Context, partnerID kernel.UUID, location kernel.GeoPoint) error {
	s.positions[partnerID] = location
	return nil
}

func (s *stubLocationCache) GetLocation(_ context.Context, partnerID kernel.UUID) (kernel.GeoPoint, error) {
	point, ok := s.positions[partnerID]
	if !ok {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("partner location", partnerID.String())
	}
	return point, nil
}

// EntityDirectoryIntegrationTestSuite provides integration tests for the
// directory adapter, in particular the jsonb containment filter on offered
// tests and the live location fallback for delivery partners.
type EntityDirectoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	cache     *stubLocationCache
	directory *directoryrepo.GormEntityDirectory
}

func (suite *EntityDirectoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&directoryrepo.ProviderDTO{},
		&directoryrepo.PartnerDTO{},
		&directoryrepo.AdminDTO{},
	))
}

func (suite *EntityDirectoryIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE providers, delivery_partners, administrators").Error
	suite.Require().NoError(err)

	suite.cache = &stubLocationCache{positions: make(map[kernel.UUID]kernel.GeoPoint)}
	suite.directory = directoryrepo.NewGormEntityDirectory(suite.db, suite.cache)
}

func (suite *EntityDirectoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *EntityDirectoryIntegrationTestSuite) TestFindAvailable_Providers_FiltersAvailability() {
	ctx := context.Background()

	available := suite.seedProvider(true, nil)
	suite.seedProvider(false, nil)

	candidates, err := suite.directory.FindAvailable(ctx, order.RoleProvider, ports.CandidateFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 1)
	suite.Equal(available, candidates[0].ID())
	suite.Equal(order.RoleProvider, candidates[0].Role())
}

func (suite *EntityDirectoryIntegrationTestSuite) TestFindAvailable_Providers_RequiresOfferedTests() {
	ctx := context.Background()

	cbc := kernel.NewUUID()
	lipid := kernel.NewUUID()

	fullLab := suite.seedProvider(true, []string{cbc.String(), lipid.String()})
	suite.seedProvider(true, []string{cbc.String()})
	suite.seedProvider(true, nil)

	candidates, err := suite.directory.FindAvailable(ctx, order.RoleProvider, ports.CandidateFilter{
		TestIDs: []kernel.UUID{cbc, lipid},
	})
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 1)
	suite.Equal(fullLab, candidates[0].ID())
}

func (suite *EntityDirectoryIntegrationTestSuite) TestFindAvailable_Providers_ExcludesAttemptedIDs() {
	ctx := context.Background()

	first := suite.seedProvider(true, nil)
	second := suite.seedProvider(true, nil)

	candidates, err := suite.directory.FindAvailable(ctx, order.RoleProvider, ports.CandidateFilter{
		ExcludeIDs: []kernel.UUID{first},
	})
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 1)
	suite.Equal(second, candidates[0].ID())
}

func (suite *EntityDirectoryIntegrationTestSuite) TestFindAvailable_Partners_UsesLiveLocation() {
	ctx := context.Background()

	reporting := suite.seedPartner(true, 23.70, 90.35)
	silent := suite.seedPartner(true, 23.90, 90.45)

	livePoint, err := kernel.NewGeoPoint(23.80, 90.40)
	suite.Require().NoError(err)
	suite.cache.positions[reporting] = livePoint

	candidates, err := suite.directory.FindAvailable(ctx, order.RolePartner, ports.CandidateFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 2)

	byID := make(map[kernel.UUID]kernel.GeoPoint, len(candidates))
	for _, c := range candidates {
		byID[c.ID()] = c.Location()
	}

	// The reporting partner is seen at its live position, the silent one at
	// its registered base.
	suite.InDelta(23.80, byID[reporting].Latitude(), 0.0001)
	suite.InDelta(90.40, byID[reporting].Longitude(), 0.0001)
	suite.InDelta(23.90, byID[silent].Latitude(), 0.0001)
	suite.InDelta(90.45, byID[silent].Longitude(), 0.0001)
}

func (suite *EntityDirectoryIntegrationTestSuite) TestFindCandidate_ReturnsRegisteredCandidate() {
	ctx := context.Background()

	providerID := suite.seedProvider(true, nil)

	found, err := suite.directory.FindCandidate(ctx, order.RoleProvider, providerID)
	suite.Require().NoError(err)
	suite.Equal(providerID, found.ID())
	suite.Equal(order.RoleProvider, found.Role())
}

func (suite *EntityDirectoryIntegrationTestSuite) TestFindCandidate_Unknown_ReturnsNotFoundError() {
	ctx := context.Background()

	_, err := suite.directory.FindCandidate(ctx, order.RolePartner, kernel.NewUUID())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *EntityDirectoryIntegrationTestSuite) TestFindActiveAdmins_SkipsInactiveAndUnreachable() {
	ctx := context.Background()

	suite.seedAdmin(true, "push://admin-1")
	suite.seedAdmin(true, "")
	suite.seedAdmin(false, "push://admin-3")

	addresses, err := suite.directory.FindActiveAdmins(ctx)
	suite.Require().NoError(err)
	suite.Equal([]string{"push://admin-1"}, addresses)
}

func (suite *EntityDirectoryIntegrationTestSuite) seedProvider(available bool, tests []string) kernel.UUID {
	id := kernel.NewUUID()
	dto := directoryrepo.ProviderDTO{
		ID:          id.Bytes(),
		Lat:         23.81,
		Lon:         90.41,
		Available:   available,
		PushAddress: "push://provider-" + id.String(),
		Tests:       directoryrepo.TestsDTO(tests),
	}
	suite.Require().NoError(suite.db.Create(&dto).Error)
	return id
}

func (suite *EntityDirectoryIntegrationTestSuite) seedPartner(available bool, baseLat, baseLon float64) kernel.UUID {
	id := kernel.NewUUID()
	dto := directoryrepo.PartnerDTO{
		ID:          id.Bytes(),
		BaseLat:     baseLat,
		BaseLon:     baseLon,
		Available:   available,
		PushAddress: "push://partner-" + id.String(),
	}
	suite.Require().NoError(suite.db.Create(&dto).Error)
	return id
}

func (suite *EntityDirectoryIntegrationTestSuite) seedAdmin(active bool, pushAddress string) {
	dto := directoryrepo.AdminDTO{
		ID:          uuid.New(),
		Active:      active,
		PushAddress: pushAddress,
	}
	suite.Require().NoError(suite.db.Create(&dto).Error)
}

func TestEntityDirectoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(EntityDirectoryIntegrationTestSuite))
}
