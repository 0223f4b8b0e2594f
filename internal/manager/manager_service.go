package manager

import (
	"context"
	"errors"

	"go-leave/internal/audit"
	"go-leave/internal/guard"
	managererrors "go-leave/internal/manager/errors"
	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, p guard.Principal, req CreateManagerRequest) (ManagerResponse, error)
	GetAll(ctx context.Context, p guard.Principal) ([]ManagerResponse, error)
	GetByID(ctx context.Context, p guard.Principal, id int64) (ManagerResponse, error)
	Delete(ctx context.Context, p guard.Principal, id int64) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	recorder audit.Recorder
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("manager.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("manager.service")
	}
	return &service{db: db, repo: repo, recorder: recorder, logger: l}
}

func (s *service) Create(ctx context.Context, p guard.Principal, req CreateManagerRequest) (ManagerResponse, error) {
	if !p.Allowed(guard.CapManageManagers) {
		return ManagerResponse{}, apperror.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return ManagerResponse{}, apperror.ErrInternal
	}

	m := &Manager{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := qtx.Create(ctx, m); err != nil {
			return mapRepositoryError(err)
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "create_manager",
			TargetTable: "managers",
			TargetID:    m.ID,
		})
	})
	if err != nil {
		s.logger.Warn("create manager failed", zap.String("email", req.Email), zap.Error(err))
		return ManagerResponse{}, err
	}

	s.logger.Info("create manager success", zap.Int64("manager_id", m.ID))
	return toResponse(m), nil
}

func (s *service) GetAll(ctx context.Context, p guard.Principal) ([]ManagerResponse, error) {
	if !p.Allowed(guard.CapManageManagers) {
		return nil, apperror.ErrForbidden
	}

	managers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all managers failed", zap.Error(err))
		return nil, err
	}

	resp := make([]ManagerResponse, len(managers))
	for i := range managers {
		resp[i] = toResponse(&managers[i])
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, p guard.Principal, id int64) (ManagerResponse, error) {
	if !p.Allowed(guard.CapManageManagers) {
		return ManagerResponse{}, apperror.ErrForbidden
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ManagerResponse{}, managererrors.ErrManagerNotFound
		}
		return ManagerResponse{}, err
	}
	return toResponse(m), nil
}

func (s *service) Delete(ctx context.Context, p guard.Principal, id int64) error {
	if !p.Allowed(guard.CapManageManagers) {
		return apperror.ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindByID(ctx, id); err != nil {
			return mapRepositoryError(err)
		}

		if err := qtx.Delete(ctx, id); err != nil {
			return err
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "delete_manager",
			TargetTable: "managers",
			TargetID:    id,
		})
	})
	if err != nil {
		s.logger.Warn("delete manager failed", zap.Int64("manager_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("delete manager success", zap.Int64("manager_id", id))
	return nil
}
