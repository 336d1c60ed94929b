package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "loadflow/internal/adapters/out/postgres"
	"loadflow/internal/adapters/out/postgres/auditrepo"
	"loadflow/internal/adapters/out/postgres/convoyrepo"
	"loadflow/internal/adapters/out/postgres/loadrepo"
	"loadflow/internal/core/domain/model/audit"
	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres_adapter.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&loadrepo.LoadDTO{}, &convoyrepo.ConvoyDTO{}, &auditrepo.AuditDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE loads, convoys, transition_audit").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_Create_ReturnsIsolatedInstances() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.LoadRepository())
	suite.NotNil(uow1.ConvoyRepository())
	suite.NotNil(uow1.AuditRepository())
	suite.NotNil(uow2.LoadRepository())
	suite.NotNil(uow2.ConvoyRepository())
	suite.NotNil(uow2.AuditRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Begin on an active transaction is a no-op, not a nested transaction.
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "commit without begin should fail")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "rollback without begin should fail")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsStateChangeAndAuditAtomically() {
	ctx := context.Background()
	uow := suite.factory.Create()

	aggregate := createTestLoad()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.LoadRepository().Add(ctx, aggregate)
	suite.Require().NoError(err)

	record, err := audit.NewTransitionRecord(audit.EntityLoad, aggregate.ID(), time.Now())
	suite.Require().NoError(err)
	record.ToState = aggregate.State().String()
	record.TransitionID = "create_load"
	record.Success = true
	err = uow.AuditRepository().Append(ctx, record)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	retrieved, err := newUow.LoadRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(load.Draft, retrieved.State())
	suite.Equal(int64(1), suite.countAuditRecords(aggregate.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllWrites() {
	ctx := context.Background()
	uow := suite.factory.Create()

	aggregate := createTestLoad()
	escort := createTestConvoy(aggregate.ID())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.LoadRepository().Add(ctx, aggregate)
	suite.Require().NoError(err)

	err = uow.ConvoyRepository().Add(ctx, escort)
	suite.Require().NoError(err)

	record, err := audit.NewTransitionRecord(audit.EntityLoad, aggregate.ID(), time.Now())
	suite.Require().NoError(err)
	record.Success = true
	err = uow.AuditRepository().Append(ctx, record)
	suite.Require().NoError(err)

	// Writes are visible inside the transaction before the rollback.
	_, err = uow.LoadRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.LoadRepository().Get(ctx, aggregate.ID())
	suite.Require().Error(err, "load should not exist after rollback")

	_, err = newUow.ConvoyRepository().Get(ctx, escort.ID())
	suite.Require().Error(err, "convoy should not exist after rollback")

	suite.Equal(int64(0), suite.countAuditRecords(aggregate.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	load1 := createTestLoad()
	load2 := createTestLoad()

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.LoadRepository().Add(ctx, load1))
	suite.Require().NoError(uow2.LoadRepository().Add(ctx, load2))

	_, err := uow1.LoadRepository().Get(ctx, load2.ID())
	suite.Require().Error(err, "uow1 should not see uow2's uncommitted load")

	_, err = uow2.LoadRepository().Get(ctx, load1.ID())
	suite.Require().Error(err, "uow2 should not see uow1's uncommitted load")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	newUow := suite.factory.Create()
	_, err = newUow.LoadRepository().Get(ctx, load1.ID())
	suite.Require().NoError(err, "committed load should persist")

	_, err = newUow.LoadRepository().Get(ctx, load2.ID())
	suite.Require().Error(err, "rolled back load should not persist")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRepositories_WithoutTransaction_AutoCommit() {
	ctx := context.Background()
	uow := suite.factory.Create()

	aggregate := createTestLoad()

	err := uow.LoadRepository().Add(ctx, aggregate)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	retrieved, err := newUow.LoadRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.True(retrieved.ID().IsEqual(aggregate.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) countAuditRecords(entityID kernel.UUID) int64 {
	var count int64
	err := suite.db.Table("transition_audit").
		Where("entity_id = ?", entityID.String()).
		Count(&count).Error
	suite.Require().NoError(err)
	return count
}

func createTestLoad() *load.Load {
	aggregate, _ := load.NewLoad(kernel.NewUUID(), kernel.NewUUID(), time.Now())
	return aggregate
}

func createTestConvoy(loadID kernel.UUID) *convoy.Convoy {
	escort, _ := convoy.NewConvoy(kernel.NewUUID(), loadID, kernel.NewUUID(), nil, time.Now())
	return escort
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
