package audit

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *AuditLog) error
	FindAll(ctx context.Context) ([]AuditLog, error)
	FindByActor(ctx context.Context, actorType string, actorID int64) ([]AuditLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindAll(ctx context.Context) ([]AuditLog, error) {
	var entries []AuditLog
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindByActor(ctx context.Context, actorType string, actorID int64) ([]AuditLog, error) {
	var entries []AuditLog
	err := r.db.WithContext(ctx).
		Where("actor_type = ?", actorType).
		Where("actor_id = ?", actorID).
		Order("timestamp DESC").
		Find(&entries).Error
	return entries, err
}
