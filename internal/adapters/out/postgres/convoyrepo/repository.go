package convoyrepo

import (
	"context"
	"errors"
	"fmt"

	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// terminalStatuses are excluded from GetAllActive.
func terminalStatusNames() []string {
	names := make([]string, 0, 4)
	for _, s := range []convoy.Status{
		convoy.EscortDeclined, convoy.EscortComplete, convoy.EscortCancelled, convoy.EscortDisbanded,
	} {
		names = append(names, s.String())
	}
	return names
}

// GormConvoyRepository implements ports.ConvoyRepository using GORM.
type GormConvoyRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking modified aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormConvoyRepository creates a new GORM convoy repository.
func NewGormConvoyRepository(db *gorm.DB, tracker aggregateTracker) *GormConvoyRepository {
	return &GormConvoyRepository{db: db, tracker: tracker}
}

// Add saves a new convoy to the database.
func (r *GormConvoyRepository) Add(ctx context.Context, aggregate *convoy.Convoy) error {
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

// Update saves an existing convoy with the same version-guarded write as the
// load repository.
func (r *GormConvoyRepository) Update(ctx context.Context, aggregate *convoy.Convoy) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	readVersion := dto.Version
	dto.Version = readVersion + 1

	result := r.db.WithContext(ctx).
		Model(&ConvoyDTO{}).
		Where("id = ? AND version = ?", dto.ID, readVersion).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError(
			"convoy", fmt.Errorf("convoy %s changed since version %d was read", aggregate.ID(), readVersion))
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a convoy by ID.
func (r *GormConvoyRepository) Get(ctx context.Context, id kernel.UUID) (*convoy.Convoy, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ConvoyDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("convoy", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByLoadID retrieves the convoy escorting the given load.
func (r *GormConvoyRepository) GetByLoadID(ctx context.Context, loadID kernel.UUID) (*convoy.Convoy, error) {
	if err := loadID.Validate(); err != nil {
		return nil, err
	}

	var dto ConvoyDTO
	if err := r.db.WithContext(ctx).First(&dto, "load_id = ?", loadID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("convoy by load", loadID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves every convoy not yet in a terminal status.
func (r *GormConvoyRepository) GetAllActive(ctx context.Context) ([]*convoy.Convoy, error) {
	var dtos []ConvoyDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "status NOT IN ?", terminalStatusNames()).Error; err != nil {
		return nil, err
	}

	convoys := make([]*convoy.Convoy, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		convoys = append(convoys, aggregate)
	}
	return convoys, nil
}
