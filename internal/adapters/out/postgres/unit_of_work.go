// Package postgres provides the GORM-based Unit of Work implementation. One
// unit of work wraps one database transaction; the engine relies on it to
// land a state change and its audit record atomically.
//
// Each business operation gets a fresh instance from the factory, so
// concurrent operations never share transaction state.
package postgres

import (
	"context"

	"loadflow/internal/adapters/out/postgres/auditrepo"
	"loadflow/internal/adapters/out/postgres/convoyrepo"
	"loadflow/internal/adapters/out/postgres/loadrepo"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate records an aggregate modified during the unit of work,
// for post-commit processing such as outbox publishing.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM
// connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory bound to the given database.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the load,
// convoy and audit repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling Begin on an already-begun unit of
// work is a no-op rather than a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}
	return nil
}

// Commit finalizes the transaction. The unit of work cannot be reused after.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Rolling back after a commit returns
// gorm.ErrInvalidTransaction, which deferred cleanup callers ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// LoadRepository returns a load repository bound to the current transaction,
// or to the main connection when no transaction is active.
func (uow *GormUnitOfWork) LoadRepository() ports.LoadRepository {
	return loadrepo.NewGormLoadRepository(uow.conn(), uow)
}

// ConvoyRepository returns a convoy repository bound to the current
// transaction.
func (uow *GormUnitOfWork) ConvoyRepository() ports.ConvoyRepository {
	return convoyrepo.NewGormConvoyRepository(uow.conn(), uow)
}

// AuditRepository returns an audit repository bound to the current
// transaction.
func (uow *GormUnitOfWork) AuditRepository() ports.AuditRepository {
	return auditrepo.NewGormAuditRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// TrackAggregate registers a modified aggregate for post-transaction
// processing. Repository implementations call this on Add and Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
