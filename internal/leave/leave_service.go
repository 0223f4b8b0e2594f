package leave

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go-leave/internal/audit"
	"go-leave/internal/balance"
	"go-leave/internal/events"
	"go-leave/internal/guard"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger is the slice of the balance module submission needs: a read-only
// feasibility check. The actual debit happens at decision time.
type Ledger interface {
	ReserveCheck(ctx context.Context, employeeID, typeID int64, days int) error
}

type Service interface {
	Submit(ctx context.Context, p guard.Principal, req SubmitLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, p guard.Principal) ([]LeaveResponse, error)
	GetByID(ctx context.Context, p guard.Principal, id int64) (LeaveResponse, error)
	GetByEmployee(ctx context.Context, p guard.Principal, employeeID int64) ([]LeaveResponse, error)
	ListPending(ctx context.Context, p guard.Principal) ([]LeaveResponse, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	ledger   Ledger
	recorder audit.Recorder
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, ledger Ledger, recorder audit.Recorder, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, ledger, recorder, nil, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	ledger Ledger,
	recorder audit.Recorder,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		ledger:   ledger,
		recorder: recorder,
		outbox:   outboxRepo,
		logger:   l,
	}
}

// Submit creates a pending request owned by the calling employee. The
// ledger check here is best-effort early rejection only: nothing is
// reserved, concurrent submissions against the same balance stay possible
// and are resolved by the debit at decision time.
func (s *service) Submit(ctx context.Context, p guard.Principal, req SubmitLeaveRequest) (LeaveResponse, error) {
	if !p.Allowed(guard.CapSubmitLeave) {
		return LeaveResponse{}, apperror.ErrForbidden
	}

	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit leave requested",
		zap.String("request_id", rid),
		zap.Int64("employee_id", p.ID),
		zap.Int64("type_id", req.TypeID),
		zap.String("start_time", req.StartTime),
		zap.String("end_time", req.EndTime),
	)

	startTime, err := parseTime(req.StartTime)
	if err != nil {
		return LeaveResponse{}, err
	}
	endTime, err := parseTime(req.EndTime)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !startTime.Before(endTime) {
		return LeaveResponse{}, leaveerrors.ErrInvalidTimeRange
	}

	days := balance.DayCount(startTime, endTime)
	if err := s.ledger.ReserveCheck(ctx, p.ID, req.TypeID, days); err != nil {
		s.logger.Warn("submit leave reserve check failed",
			zap.Int64("employee_id", p.ID),
			zap.Int64("type_id", req.TypeID),
			zap.Int("days", days),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		EmployeeID: p.ID,
		TypeID:     req.TypeID,
		StartTime:  startTime,
		EndTime:    endTime,
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.LeaveTypeExists(ctx, req.TypeID)
		if err != nil {
			return err
		}
		if !exists {
			return leaveerrors.ErrLeaveTypeNotFound
		}

		if err := qtx.Create(ctx, l); err != nil {
			return err
		}

		if err := s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "submit_leave",
			TargetTable: "leave_requests",
			TargetID:    l.ID,
		}); err != nil {
			return err
		}

		return s.queueSubmittedEvent(ctx, tx, rid, l)
	})
	if err != nil {
		s.logger.Warn("submit leave failed",
			zap.String("request_id", rid),
			zap.Int64("employee_id", p.ID),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("request_id", rid),
		zap.Int64("leave_id", l.ID),
		zap.Int64("employee_id", p.ID),
	)
	return mapToResponse(*l), nil
}

func (s *service) queueSubmittedEvent(ctx context.Context, tx *gorm.DB, rid string, l *LeaveRequest) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveSubmittedEvent{
		EventType:  "leave_submitted",
		RequestID:  rid,
		LeaveID:    l.ID,
		EmployeeID: l.EmployeeID,
		TypeID:     l.TypeID,
		StartTime:  l.StartTime,
		EndTime:    l.EndTime,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   strconv.FormatInt(l.ID, 10),
		EventType:     event.EventType,
		Topic:         events.LeaveSubmittedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetAll(ctx context.Context, p guard.Principal) ([]LeaveResponse, error) {
	if !p.Allowed(guard.CapReadAnyLeave) {
		return nil, apperror.ErrForbidden
	}

	leaves, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, p guard.Principal, id int64) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if !p.Allowed(guard.CapReadAnyLeave) && !(p.Owns(l.EmployeeID) && p.Allowed(guard.CapReadOwnLeaves)) {
		return LeaveResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) GetByEmployee(ctx context.Context, p guard.Principal, employeeID int64) ([]LeaveResponse, error) {
	if !p.Allowed(guard.CapReadAnyLeave) && !(p.Owns(employeeID) && p.Allowed(guard.CapReadOwnLeaves)) {
		return nil, apperror.ErrForbidden
	}

	leaves, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get leaves by employee failed",
			zap.Int64("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListPending(ctx context.Context, p guard.Principal) ([]LeaveResponse, error) {
	if !p.Allowed(guard.CapListPending) {
		return nil, apperror.ErrForbidden
	}

	leaves, err := s.repo.FindAllPending(ctx)
	if err != nil {
		s.logger.Error("list pending leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidTimeFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		TypeID:     l.TypeID,
		StartTime:  l.StartTime.Format(time.RFC3339),
		EndTime:    l.EndTime.Format(time.RFC3339),
		Reason:     l.Reason,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
