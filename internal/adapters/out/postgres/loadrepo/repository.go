package loadrepo

import (
	"context"
	"errors"
	"fmt"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormLoadRepository implements ports.LoadRepository using GORM.
type GormLoadRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking modified aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormLoadRepository creates a new GORM load repository.
func NewGormLoadRepository(db *gorm.DB, tracker aggregateTracker) *GormLoadRepository {
	return &GormLoadRepository{db: db, tracker: tracker}
}

// Add saves a new load to the database.
func (r *GormLoadRepository) Add(ctx context.Context, aggregate *load.Load) error {
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

// Update saves an existing load, guarded by the version read from the
// database. The write bumps the version; zero affected rows means another
// writer committed first and surfaces as a version error.
func (r *GormLoadRepository) Update(ctx context.Context, aggregate *load.Load) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	readVersion := dto.Version
	dto.Version = readVersion + 1

	result := r.db.WithContext(ctx).
		Model(&LoadDTO{}).
		Where("id = ? AND version = ?", dto.ID, readVersion).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError(
			"load", fmt.Errorf("load %s changed since version %d was read", aggregate.ID(), readVersion))
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a load by ID.
func (r *GormLoadRepository) Get(ctx context.Context, id kernel.UUID) (*load.Load, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LoadDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("load", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllInStates retrieves every load sitting in any of the given states.
func (r *GormLoadRepository) GetAllInStates(ctx context.Context, states []load.State) ([]*load.Load, error) {
	if len(states) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, s.String())
	}

	var dtos []LoadDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "state IN ?", names).Error; err != nil {
		return nil, err
	}

	loads := make([]*load.Load, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		loads = append(loads, aggregate)
	}
	return loads, nil
}
