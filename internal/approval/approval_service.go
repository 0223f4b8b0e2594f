package approval

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	approvalerrors "go-leave/internal/approval/errors"
	"go-leave/internal/audit"
	"go-leave/internal/balance"
	"go-leave/internal/events"
	"go-leave/internal/guard"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxDecideAttempts bounds the internal retry on transient serialization
// conflicts before surfacing a generic CONFLICT to the caller.
const maxDecideAttempts = 3

// BalanceLedger is the slice of the balance module a decision needs.
type BalanceLedger interface {
	Debit(ctx context.Context, tx *gorm.DB, employeeID, typeID int64, days int) (*balance.Balance, error)
}

type Service interface {
	Decide(ctx context.Context, p guard.Principal, req DecideRequest) (ApprovalResponse, error)
	GetAll(ctx context.Context, p guard.Principal) ([]ApprovalResponse, error)
	GetByID(ctx context.Context, p guard.Principal, id int64) (ApprovalResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	leaveRepo leave.Repository
	ledger    BalanceLedger
	recorder  audit.Recorder
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	leaveRepo leave.Repository,
	ledger BalanceLedger,
	recorder audit.Recorder,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, leaveRepo, ledger, recorder, nil, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	leaveRepo leave.Repository,
	ledger BalanceLedger,
	recorder audit.Recorder,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		leaveRepo: leaveRepo,
		ledger:    ledger,
		recorder:  recorder,
		outbox:    outboxRepo,
		logger:    l,
	}
}

// Decide settles a pending leave request. The status re-read, the balance
// debit (for approvals), the approval row, the audit entry and the outbox
// event are one transaction: a failure anywhere leaves the request pending
// and the balance untouched, so retrying the whole call is always safe.
func (s *service) Decide(ctx context.Context, p guard.Principal, req DecideRequest) (ApprovalResponse, error) {
	if !p.Allowed(guard.CapDecideLeave) {
		return ApprovalResponse{}, apperror.ErrForbidden
	}
	if req.Decision != DecisionApproved && req.Decision != DecisionRejected {
		return ApprovalResponse{}, approvalerrors.ErrInvalidDecision
	}

	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide leave requested",
		zap.String("request_id", rid),
		zap.Int64("leave_id", req.LeaveID),
		zap.Int64("manager_id", p.ID),
		zap.String("decision", req.Decision),
	)

	var (
		a   *Approval
		err error
	)
	for attempt := 1; attempt <= maxDecideAttempts; attempt++ {
		a, err = s.decideOnce(ctx, p, rid, req)
		if err == nil || !isTransientConflict(err) {
			break
		}
		s.logger.Warn("decide leave transient conflict, retrying",
			zap.Int64("leave_id", req.LeaveID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	if err != nil {
		if isTransientConflict(err) {
			err = apperror.ErrConflict
		}
		s.logger.Warn("decide leave failed",
			zap.String("request_id", rid),
			zap.Int64("leave_id", req.LeaveID),
			zap.String("decision", req.Decision),
			zap.Error(err),
		)
		return ApprovalResponse{}, err
	}

	s.logger.Info("decide leave success",
		zap.String("request_id", rid),
		zap.Int64("leave_id", req.LeaveID),
		zap.Int64("approval_id", a.ID),
		zap.String("decision", a.Decision),
	)
	return mapToResponse(*a), nil
}

func (s *service) decideOnce(ctx context.Context, p guard.Principal, rid string, req DecideRequest) (*Approval, error) {
	var a *Approval

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leaveTx := s.leaveRepo.WithTx(tx)

		l, err := leaveTx.FindByIDForUpdate(ctx, req.LeaveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrLeaveNotFound
			}
			return err
		}
		if !leave.IsAllowedStatusTransition(l.Status, req.Decision) {
			return leaveerrors.ErrAlreadyDecided
		}

		if req.Decision == DecisionApproved {
			days := balance.DayCount(l.StartTime, l.EndTime)
			if _, err := s.ledger.Debit(ctx, tx, l.EmployeeID, l.TypeID, days); err != nil {
				return err
			}
		}

		l.Status = req.Decision
		if err := leaveTx.Update(ctx, l); err != nil {
			return err
		}

		a = &Approval{
			LeaveID:    l.ID,
			ApprovedBy: p.ID,
			ApprovedAt: time.Now().UTC(),
			Decision:   req.Decision,
		}
		if err := s.repo.WithTx(tx).Create(ctx, a); err != nil {
			// A duplicate on leave_id means a concurrent decision won the
			// race after our lock attempt; report it as already decided.
			if isUniqueViolation(err) {
				return leaveerrors.ErrAlreadyDecided
			}
			return err
		}

		if err := s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "decide_leave_" + req.Decision,
			TargetTable: "leave_requests",
			TargetID:    l.ID,
		}); err != nil {
			return err
		}

		return s.queueDecidedEvent(ctx, tx, rid, p, l)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) queueDecidedEvent(ctx context.Context, tx *gorm.DB, rid string, p guard.Principal, l *leave.LeaveRequest) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveDecidedEvent{
		EventType:  "leave_decided",
		RequestID:  rid,
		LeaveID:    l.ID,
		EmployeeID: l.EmployeeID,
		TypeID:     l.TypeID,
		Decision:   l.Status,
		DecidedBy:  p.ID,
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
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetAll(ctx context.Context, p guard.Principal) ([]ApprovalResponse, error) {
	if !p.Allowed(guard.CapReadApprovals) {
		return nil, apperror.ErrForbidden
	}

	approvals, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all approvals failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(approvals), nil
}

func (s *service) GetByID(ctx context.Context, p guard.Principal, id int64) (ApprovalResponse, error) {
	if !p.Allowed(guard.CapReadApprovals) {
		return ApprovalResponse{}, apperror.ErrForbidden
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApprovalResponse{}, approvalerrors.ErrApprovalNotFound
		}
		return ApprovalResponse{}, err
	}
	return mapToResponse(*a), nil
}

func isTransientConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return errors.Is(err, apperror.ErrConflict)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(a Approval) ApprovalResponse {
	return ApprovalResponse{
		ID:         a.ID,
		LeaveID:    a.LeaveID,
		ApprovedBy: a.ApprovedBy,
		ApprovedAt: a.ApprovedAt.Format(time.RFC3339),
		Decision:   a.Decision,
	}
}

func mapToListResponse(approvals []Approval) []ApprovalResponse {
	resp := make([]ApprovalResponse, len(approvals))
	for i, a := range approvals {
		resp[i] = mapToResponse(a)
	}
	return resp
}
