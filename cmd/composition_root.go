package cmd

import (
	"log/slog"

	httpin "meddispatch/internal/adapters/in/http"
	mapsout "meddispatch/internal/adapters/out/maps"
	"meddispatch/internal/adapters/out/postgres"
	"meddispatch/internal/adapters/out/postgres/directoryrepo"
	"meddispatch/internal/adapters/out/push"
	"meddispatch/internal/adapters/out/redis/locationcache"
	"meddispatch/internal/core/application/usecases/commands"
	"meddispatch/internal/core/application/usecases/queries"
	"meddispatch/internal/core/ports"
	"meddispatch/internal/jobs"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	locations  ports.LocationCache
	directory  ports.EntityDirectory
	notifier   ports.Notifier
	routes     ports.RouteService
	logger     *slog.Logger
	config     Config
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	asynqClient *asynq.Client,
	logger *slog.Logger,
) (CompositionRoot, error) {
	routes, err := mapsout.NewGoogleRouteService(config.GoogleMapsAPIKey)
	if err != nil {
		return CompositionRoot{}, err
	}

	locations := locationcache.NewRedisLocationCache(redisClient, config.LocationTTL)

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		locations:  locations,
		directory:  directoryrepo.NewGormEntityDirectory(gormDB, locations),
		notifier:   push.NewAsynqNotifier(asynqClient, logger),
		routes:     routes,
		logger:     logger,
		config:     config,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.directory, c.notifier)
}

func (c *CompositionRoot) CreateRespondToAssignmentCommandHandler() commands.RespondToAssignmentCommandHandler {
	return commands.NewRespondToAssignmentCommandHandler(c.orderUoWFactory(), c.directory, c.notifier)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateConfirmPickupCommandHandler() commands.ConfirmPickupCommandHandler {
	return commands.NewConfirmPickupCommandHandler(c.orderUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.orderUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateManualAssignCommandHandler() commands.ManualAssignCommandHandler {
	return commands.NewManualAssignCommandHandler(c.orderUoWFactory(), c.directory, c.notifier)
}

func (c *CompositionRoot) CreateExpireStaleAttemptsCommandHandler() commands.ExpireStaleAttemptsCommandHandler {
	return commands.NewExpireStaleAttemptsCommandHandler(c.orderUoWFactory(), c.directory, c.notifier)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, c.locations, c.routes)
}

func (c *CompositionRoot) CreateGetEscalatedOrdersQueryHandler() queries.GetEscalatedOrdersQueryHandler {
	return queries.NewGetEscalatedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateRespondToAssignmentCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateConfirmPickupCommandHandler(),
		c.CreateConfirmDeliveryCommandHandler(),
		c.CreateManualAssignCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetEscalatedOrdersQueryHandler(),
		c.locations,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireStaleAttemptsCommandHandler(),
		c.config.AttemptTimeout,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
