package balance

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, b *Balance) error
	Save(ctx context.Context, b *Balance) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Balance, error)
	FindByEmployeeAndType(ctx context.Context, employeeID, typeID int64) (*Balance, error)
	// FindByEmployeeAndTypeForUpdate takes a row lock so concurrent debits
	// against the same balance serialize.
	FindByEmployeeAndTypeForUpdate(ctx context.Context, employeeID, typeID int64) (*Balance, error)
	FindAllByEmployee(ctx context.Context, employeeID int64) ([]Balance, error)
	FindAll(ctx context.Context) ([]Balance, error)
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
	LeaveTypeExists(ctx context.Context, typeID int64) (bool, error)
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

func (r *repository) Create(ctx context.Context, b *Balance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) Save(ctx context.Context, b *Balance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Balance{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Balance, error) {
	var b Balance
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *repository) FindByEmployeeAndType(ctx context.Context, employeeID, typeID int64) (*Balance, error) {
	var b Balance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("type_id = ?", typeID).
		First(&b).Error
	return &b, err
}

func (r *repository) FindByEmployeeAndTypeForUpdate(ctx context.Context, employeeID, typeID int64) (*Balance, error) {
	var b Balance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		Where("type_id = ?", typeID).
		First(&b).Error
	return &b, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID int64) ([]Balance, error) {
	var balances []Balance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("type_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindAll(ctx context.Context) ([]Balance, error) {
	var balances []Balance
	err := r.db.WithContext(ctx).
		Order("employee_id ASC, type_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) LeaveTypeExists(ctx context.Context, typeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_types").
		Where("id = ?", typeID).
		Count(&count).Error
	return count > 0, err
}
