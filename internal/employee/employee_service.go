package employee

import (
	"context"
	"errors"

	"go-leave/internal/audit"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/guard"
	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, p guard.Principal, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, p guard.Principal) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, p guard.Principal, id int64) (EmployeeResponse, error)
	Update(ctx context.Context, p guard.Principal, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, p guard.Principal, id int64) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	recorder audit.Recorder
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, recorder: recorder, logger: l}
}

func (s *service) Create(ctx context.Context, p guard.Principal, req CreateEmployeeRequest) (EmployeeResponse, error) {
	if !p.Allowed(guard.CapManageEmployees) {
		return EmployeeResponse{}, apperror.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return EmployeeResponse{}, apperror.ErrInternal
	}

	e := &Employee{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := qtx.Create(ctx, e); err != nil {
			return mapRepositoryError(err)
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "create_employee",
			TargetTable: "employees",
			TargetID:    e.ID,
		})
	})
	if err != nil {
		s.logger.Warn("create employee failed", zap.String("email", req.Email), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success", zap.Int64("employee_id", e.ID))
	return toResponse(e), nil
}

func (s *service) GetAll(ctx context.Context, p guard.Principal) ([]EmployeeResponse, error) {
	if !p.Allowed(guard.CapManageEmployees) {
		return nil, apperror.ErrForbidden
	}

	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, err
	}

	resp := make([]EmployeeResponse, len(employees))
	for i := range employees {
		resp[i] = toResponse(&employees[i])
	}
	return resp, nil
}

// GetByID is open to the admin and to the employee reading their own record.
func (s *service) GetByID(ctx context.Context, p guard.Principal, id int64) (EmployeeResponse, error) {
	if !p.Allowed(guard.CapManageEmployees) && !p.Owns(id) {
		return EmployeeResponse{}, apperror.ErrForbidden
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return toResponse(e), nil
}

func (s *service) Update(ctx context.Context, p guard.Principal, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if !p.Allowed(guard.CapManageEmployees) {
		return EmployeeResponse{}, apperror.ErrForbidden
	}

	var updated *Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		e, err := qtx.FindByID(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}

		if req.Name != "" {
			e.Name = req.Name
		}
		if req.Email != "" {
			e.Email = req.Email
		}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				return apperror.ErrInternal
			}
			e.PasswordHash = string(hash)
		}

		if err := qtx.Save(ctx, e); err != nil {
			return mapRepositoryError(err)
		}
		updated = e

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "update_employee",
			TargetTable: "employees",
			TargetID:    id,
		})
	})
	if err != nil {
		s.logger.Warn("update employee failed", zap.Int64("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("update employee success", zap.Int64("employee_id", id))
	return toResponse(updated), nil
}

func (s *service) Delete(ctx context.Context, p guard.Principal, id int64) error {
	if !p.Allowed(guard.CapManageEmployees) {
		return apperror.ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindByID(ctx, id); err != nil {
			return mapRepositoryError(err)
		}

		inUse, err := qtx.HasLeaveData(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return employeeerrors.ErrEmployeeInUse
		}

		if err := qtx.Delete(ctx, id); err != nil {
			return err
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "delete_employee",
			TargetTable: "employees",
			TargetID:    id,
		})
	})
	if err != nil {
		s.logger.Warn("delete employee failed", zap.Int64("employee_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("delete employee success", zap.Int64("employee_id", id))
	return nil
}
