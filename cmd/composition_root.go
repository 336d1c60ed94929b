package cmd

import (
	"log/slog"
	"net/http"
	"time"

	inhttp "loadflow/internal/adapters/in/http"
	"loadflow/internal/adapters/out/broadcast"
	"loadflow/internal/adapters/out/effects"
	"loadflow/internal/adapters/out/guards"
	"loadflow/internal/adapters/out/kafka"
	"loadflow/internal/adapters/out/postgres"
	"loadflow/internal/core/application/usecases/commands"
	"loadflow/internal/core/application/usecases/queries"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/domain/services"
	"loadflow/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot wires the adapters to the use cases. Shared pieces (the
// catalog, the broadcast registry, the kafka producer) are built once here;
// handlers are built on demand.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	catalog     *load.Catalog
	registry    *broadcast.Registry
	producer    *kafka.Producer
	dispatcher  *effects.Dispatcher
	guardsTable map[load.GuardCheck]ports.GuardEvaluator

	logger *slog.Logger
}

// NewCompositionRoot builds the shared infrastructure for the process.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	catalog, err := load.NewCatalog()
	if err != nil {
		return nil, err
	}

	registry := broadcast.NewRegistry(logger)
	producer := kafka.NewProducer(config.KafkaHost, config.KafkaLoadEventsTopic, logger)
	dispatcher := effects.NewDispatcher(registry, producer, logger)

	httpClient := &http.Client{Timeout: 5 * time.Second}
	guardsTable := guards.NewDispatchTable(guards.BackingServices{
		Compliance:  guards.NewRemoteEvaluator(config.ComplianceServiceURL, httpClient),
		Positioning: guards.NewRemoteEvaluator(config.PositioningServiceURL, httpClient),
		Billing:     guards.NewRemoteEvaluator(config.BillingServiceURL, httpClient),
	})

	return &CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:     catalog,
		registry:    registry,
		producer:    producer,
		dispatcher:  dispatcher,
		guardsTable: guardsTable,
		logger:      logger,
	}, nil
}

// Close releases the shared infrastructure.
func (c *CompositionRoot) Close() error {
	c.registry.Close()
	return c.producer.Close()
}

// Catalog returns the validated transition catalog.
func (c *CompositionRoot) Catalog() *load.Catalog {
	return c.catalog
}

// Registry returns the broadcast registry for subscriber wiring.
func (c *CompositionRoot) Registry() *broadcast.Registry {
	return c.registry
}

func (c *CompositionRoot) loadUoWFactory() commands.LoadUoWFactory {
	return FuncLoadUoWFactory(func() commands.LoadUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) convoyUoWFactory() commands.ConvoyUoWFactory {
	return FuncConvoyUoWFactory(func() commands.ConvoyUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateAttemptTransitionCommandHandler() commands.AttemptTransitionCommandHandler {
	return commands.NewAttemptTransitionCommandHandler(
		c.loadUoWFactory(), c.catalog, c.guardsTable, c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateCreateLoadCommandHandler() commands.CreateLoadCommandHandler {
	return commands.NewCreateLoadCommandHandler(c.loadUoWFactory())
}

func (c *CompositionRoot) CreateRecordDocumentCommandHandler() commands.RecordDocumentCommandHandler {
	return commands.NewRecordDocumentCommandHandler(c.loadUoWFactory())
}

func (c *CompositionRoot) CreateCreateConvoyCommandHandler() commands.CreateConvoyCommandHandler {
	return commands.NewCreateConvoyCommandHandler(c.fullUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceConvoyCommandHandler() commands.AdvanceConvoyCommandHandler {
	return commands.NewAdvanceConvoyCommandHandler(c.convoyUoWFactory(), c.registry, c.logger)
}

func (c *CompositionRoot) CreateReportSeparationCommandHandler() commands.ReportSeparationCommandHandler {
	return commands.NewReportSeparationCommandHandler(
		c.convoyUoWFactory(), services.NewSeparationMonitor(), c.registry, c.logger)
}

func (c *CompositionRoot) CreateRunAutoTransitionsCommandHandler() commands.RunAutoTransitionsCommandHandler {
	return commands.NewRunAutoTransitionsCommandHandler(
		c.loadUoWFactory(), c.CreateAttemptTransitionCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateSyncConvoysCommandHandler() commands.SyncConvoysCommandHandler {
	return commands.NewSyncConvoysCommandHandler(
		c.fullUoWFactory(), services.NewConvoySynchronizer(), c.registry, c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateGetLoadQueryHandler() queries.GetLoadQueryHandler {
	return queries.NewGetLoadQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableTransitionsQueryHandler() queries.GetAvailableTransitionsQueryHandler {
	return queries.NewGetAvailableTransitionsQueryHandler(c.gormDB, c.catalog)
}

func (c *CompositionRoot) CreateGetAuditTrailQueryHandler() queries.GetAuditTrailQueryHandler {
	return queries.NewGetAuditTrailQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetConvoyQueryHandler() queries.GetConvoyQueryHandler {
	return queries.NewGetConvoyQueryHandler(c.gormDB)
}

// CreateServer assembles the HTTP server from the handlers above.
func (c *CompositionRoot) CreateServer() *inhttp.Server {
	return inhttp.NewServer(
		c.CreateCreateLoadCommandHandler(),
		c.CreateAttemptTransitionCommandHandler(),
		c.CreateRecordDocumentCommandHandler(),
		c.CreateCreateConvoyCommandHandler(),
		c.CreateAdvanceConvoyCommandHandler(),
		c.CreateReportSeparationCommandHandler(),
		c.CreateGetLoadQueryHandler(),
		c.CreateGetAvailableTransitionsQueryHandler(),
		c.CreateGetAuditTrailQueryHandler(),
		c.CreateGetConvoyQueryHandler(),
		c.catalog,
	)
}

type FuncLoadUoWFactory func() commands.LoadUoW

func (f FuncLoadUoWFactory) Create() commands.LoadUoW {
	return f()
}

type FuncConvoyUoWFactory func() commands.ConvoyUoW

func (f FuncConvoyUoWFactory) Create() commands.ConvoyUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
