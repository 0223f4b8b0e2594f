package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Service interface {
	GetAll(ctx context.Context) ([]AuditLogResponse, error)
	GetByActor(ctx context.Context, actorType string, actorID int64) ([]AuditLogResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]AuditLogResponse, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all audit logs failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(entries), nil
}

func (s *service) GetByActor(ctx context.Context, actorType string, actorID int64) ([]AuditLogResponse, error) {
	entries, err := s.repo.FindByActor(ctx, actorType, actorID)
	if err != nil {
		s.logger.Error("get audit logs by actor failed",
			zap.String("actor_type", actorType),
			zap.Int64("actor_id", actorID),
			zap.Error(err),
		)
		return nil, err
	}
	return mapToListResponse(entries), nil
}

func mapToResponse(e AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:          e.ID,
		ActorType:   e.ActorType,
		ActorID:     e.ActorID,
		Action:      e.Action,
		TargetTable: e.TargetTable,
		TargetID:    e.TargetID,
		Timestamp:   e.Timestamp.Format(time.RFC3339),
	}
}

func mapToListResponse(entries []AuditLog) []AuditLogResponse {
	resp := make([]AuditLogResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapToResponse(e)
	}
	return resp
}
