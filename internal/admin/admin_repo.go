package admin

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, a *Admin) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindAll(ctx context.Context) ([]Admin, error)
	Count(ctx context.Context) (int64, error)
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

func (r *repository) Create(ctx context.Context, a *Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Admin{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Admin, error) {
	var a Admin
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := r.db.WithContext(ctx).First(&a, "email = ?", email).Error
	return &a, err
}

func (r *repository) FindAll(ctx context.Context) ([]Admin, error) {
	var admins []Admin
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&admins).Error
	return admins, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Admin{}).Count(&count).Error
	return count, err
}
