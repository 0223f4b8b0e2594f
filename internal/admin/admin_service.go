package admin

import (
	"context"
	"errors"

	adminerrors "go-leave/internal/admin/errors"
	"go-leave/internal/audit"
	"go-leave/internal/guard"
	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, p guard.Principal, req CreateAdminRequest) (AdminResponse, error)
	GetAll(ctx context.Context, p guard.Principal) ([]AdminResponse, error)
	GetByID(ctx context.Context, p guard.Principal, id int64) (AdminResponse, error)
	Delete(ctx context.Context, p guard.Principal, id int64) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	recorder audit.Recorder
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("admin.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("admin.service")
	}
	return &service{db: db, repo: repo, recorder: recorder, logger: l}
}

func (s *service) Create(ctx context.Context, p guard.Principal, req CreateAdminRequest) (AdminResponse, error) {
	if !p.Allowed(guard.CapManageAdmins) {
		return AdminResponse{}, apperror.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AdminResponse{}, apperror.ErrInternal
	}

	a := &Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := qtx.Create(ctx, a); err != nil {
			return mapRepositoryError(err)
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "create_admin",
			TargetTable: "admins",
			TargetID:    a.ID,
		})
	})
	if err != nil {
		s.logger.Warn("create admin failed", zap.String("email", req.Email), zap.Error(err))
		return AdminResponse{}, err
	}

	s.logger.Info("create admin success", zap.Int64("admin_id", a.ID))
	return toResponse(a), nil
}

func (s *service) GetAll(ctx context.Context, p guard.Principal) ([]AdminResponse, error) {
	if !p.Allowed(guard.CapManageAdmins) {
		return nil, apperror.ErrForbidden
	}

	admins, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all admins failed", zap.Error(err))
		return nil, err
	}

	resp := make([]AdminResponse, len(admins))
	for i := range admins {
		resp[i] = toResponse(&admins[i])
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, p guard.Principal, id int64) (AdminResponse, error) {
	if !p.Allowed(guard.CapManageAdmins) {
		return AdminResponse{}, apperror.ErrForbidden
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdminResponse{}, adminerrors.ErrAdminNotFound
		}
		return AdminResponse{}, err
	}
	return toResponse(a), nil
}

func (s *service) Delete(ctx context.Context, p guard.Principal, id int64) error {
	if !p.Allowed(guard.CapManageAdmins) {
		return apperror.ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindByID(ctx, id); err != nil {
			return mapRepositoryError(err)
		}

		count, err := qtx.Count(ctx)
		if err != nil {
			return err
		}
		if count <= 1 {
			return adminerrors.ErrLastAdmin
		}

		if err := qtx.Delete(ctx, id); err != nil {
			return err
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "delete_admin",
			TargetTable: "admins",
			TargetID:    id,
		})
	})
	if err != nil {
		s.logger.Warn("delete admin failed", zap.Int64("admin_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("delete admin success", zap.Int64("admin_id", id))
	return nil
}
