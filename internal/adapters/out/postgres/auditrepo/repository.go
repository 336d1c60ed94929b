package auditrepo

import (
	"context"

	"loadflow/internal/core/domain/model/audit"

	"gorm.io/gorm"
)

// GormAuditRepository implements ports.AuditRepository using GORM. Records
// are only ever inserted.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts one transition record.
func (r *GormAuditRepository) Append(ctx context.Context, record *audit.TransitionRecord) error {
	dto, err := fromDomain(record)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
