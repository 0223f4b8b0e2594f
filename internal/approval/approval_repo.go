package approval

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, a *Approval) error
	FindByID(ctx context.Context, id int64) (*Approval, error)
	FindByLeaveID(ctx context.Context, leaveID int64) (*Approval, error)
	FindAll(ctx context.Context) ([]Approval, error)
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

func (r *repository) Create(ctx context.Context, a *Approval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Approval, error) {
	var a Approval
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByLeaveID(ctx context.Context, leaveID int64) (*Approval, error) {
	var a Approval
	err := r.db.WithContext(ctx).First(&a, "leave_id = ?", leaveID).Error
	return &a, err
}

func (r *repository) FindAll(ctx context.Context) ([]Approval, error) {
	var approvals []Approval
	err := r.db.WithContext(ctx).
		Order("approved_at DESC").
		Find(&approvals).Error
	return approvals, err
}
