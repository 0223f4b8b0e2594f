package manager

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, m *Manager) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Manager, error)
	FindByEmail(ctx context.Context, email string) (*Manager, error)
	FindAll(ctx context.Context) ([]Manager, error)
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

func (r *repository) Create(ctx context.Context, m *Manager) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Manager{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Manager, error) {
	var m Manager
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Manager, error) {
	var m Manager
	err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error
	return &m, err
}

func (r *repository) FindAll(ctx context.Context) ([]Manager, error) {
	var managers []Manager
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&managers).Error
	return managers, err
}
