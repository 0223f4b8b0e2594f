package leavetype

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-leave/internal/audit"
	"go-leave/internal/guard"
	leavetypeerrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const OptionsCacheKey = "leave_types:options"

const optionsCacheTTL = 10 * time.Minute

type Service interface {
	Create(ctx context.Context, p guard.Principal, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, p guard.Principal) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, p guard.Principal, id int64) (LeaveTypeResponse, error)
	Delete(ctx context.Context, p guard.Principal, id int64) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	recorder audit.Recorder
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, recorder audit.Recorder, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		recorder: recorder,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, p guard.Principal, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if !p.Allowed(guard.CapManageLeaveTypes) {
		return LeaveTypeResponse{}, apperror.ErrForbidden
	}

	t := &LeaveType{Name: req.Name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := qtx.Create(ctx, t); err != nil {
			return mapRepositoryError(err)
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "create_leave_type",
			TargetTable: "leave_types",
			TargetID:    t.ID,
		})
	})
	if err != nil {
		s.logger.Warn("create leave type failed", zap.String("name", req.Name), zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("create leave type success",
		zap.Int64("leave_type_id", t.ID),
		zap.String("name", t.Name),
	)
	return mapToResponse(*t), nil
}

// GetAll serves the dropdown every role needs, so the list is cached in
// Redis and a singleflight group keeps a cold cache from stampeding the
// database.
func (s *service) GetAll(ctx context.Context, p guard.Principal) ([]LeaveTypeResponse, error) {
	if !p.Allowed(guard.CapReadLeaveTypes) {
		return nil, apperror.ErrForbidden
	}

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, OptionsCacheKey).Result()
		if err == nil {
			var resp []LeaveTypeResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(OptionsCacheKey, func() (any, error) {
		types, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(types)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, OptionsCacheKey, payload, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache leave type options failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get all leave types failed", zap.Error(err))
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetByID(ctx context.Context, p guard.Principal, id int64) (LeaveTypeResponse, error) {
	if !p.Allowed(guard.CapReadLeaveTypes) {
		return LeaveTypeResponse{}, apperror.ErrForbidden
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*t), nil
}

func (s *service) Delete(ctx context.Context, p guard.Principal, id int64) error {
	if !p.Allowed(guard.CapManageLeaveTypes) {
		return apperror.ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindByID(ctx, id); err != nil {
			return mapRepositoryError(err)
		}

		inUse, err := qtx.InUse(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return leavetypeerrors.ErrLeaveTypeInUse
		}

		if err := qtx.Delete(ctx, id); err != nil {
			return err
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "delete_leave_type",
			TargetTable: "leave_types",
			TargetID:    id,
		})
	})
	if err != nil {
		s.logger.Warn("delete leave type failed", zap.Int64("leave_type_id", id), zap.Error(err))
		return err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("delete leave type success", zap.Int64("leave_type_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, OptionsCacheKey).Err(); err != nil {
		s.logger.Warn("invalidate leave type options cache failed",
			zap.Error(err),
			zap.String("key", OptionsCacheKey),
		)
	}
}

func mapToResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:   t.ID,
		Name: t.Name,
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, t := range types {
		resp[i] = mapToResponse(t)
	}
	return resp
}
