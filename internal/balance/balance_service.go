package balance

import (
	"context"
	"errors"

	"go-leave/internal/audit"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/guard"
	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	GetBalance(ctx context.Context, p guard.Principal, employeeID, typeID int64) (BalanceResponse, error)
	GetByID(ctx context.Context, p guard.Principal, id int64) (BalanceResponse, error)
	GetAll(ctx context.Context, p guard.Principal) ([]BalanceResponse, error)
	GetByEmployee(ctx context.Context, p guard.Principal, employeeID int64) ([]BalanceResponse, error)
	Allocate(ctx context.Context, p guard.Principal, req AllocateBalanceRequest) (BalanceResponse, error)
	Update(ctx context.Context, p guard.Principal, id int64, req UpdateBalanceRequest) (BalanceResponse, error)
	Delete(ctx context.Context, p guard.Principal, id int64) error

	// Ledger operations consumed by the leave and approval modules.
	// ReserveCheck is read-only; Debit joins the caller's transaction.
	ReserveCheck(ctx context.Context, employeeID, typeID int64, days int) error
	Debit(ctx context.Context, tx *gorm.DB, employeeID, typeID int64, days int) (*Balance, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	recorder audit.Recorder
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, recorder: recorder, logger: l}
}

func (s *service) GetBalance(ctx context.Context, p guard.Principal, employeeID, typeID int64) (BalanceResponse, error) {
	if !p.Allowed(guard.CapReadAnyBalance) && !(p.Owns(employeeID) && p.Allowed(guard.CapReadOwnBalance)) {
		return BalanceResponse{}, apperror.ErrForbidden
	}

	b, err := s.repo.FindByEmployeeAndType(ctx, employeeID, typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) GetByID(ctx context.Context, p guard.Principal, id int64) (BalanceResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return BalanceResponse{}, err
	}

	if !p.Allowed(guard.CapReadAnyBalance) && !(p.Owns(b.EmployeeID) && p.Allowed(guard.CapReadOwnBalance)) {
		return BalanceResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*b), nil
}

func (s *service) GetAll(ctx context.Context, p guard.Principal) ([]BalanceResponse, error) {
	if !p.Allowed(guard.CapReadAnyBalance) {
		return nil, apperror.ErrForbidden
	}

	balances, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all balances failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(balances), nil
}

func (s *service) GetByEmployee(ctx context.Context, p guard.Principal, employeeID int64) ([]BalanceResponse, error) {
	if !p.Allowed(guard.CapReadAnyBalance) && !(p.Owns(employeeID) && p.Allowed(guard.CapReadOwnBalance)) {
		return nil, apperror.ErrForbidden
	}

	balances, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get balances by employee failed",
			zap.Int64("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, err
	}
	return mapToListResponse(balances), nil
}

// Allocate creates or overwrites an allocation. Overwriting below what is
// already used would break the ledger invariant, so it is rejected.
func (s *service) Allocate(ctx context.Context, p guard.Principal, req AllocateBalanceRequest) (BalanceResponse, error) {
	if !p.Allowed(guard.CapAllocateBalance) {
		return BalanceResponse{}, apperror.ErrForbidden
	}
	if req.TotalAllocated < 0 {
		return BalanceResponse{}, balanceerrors.ErrInvalidAmount
	}

	s.logger.Debug("allocate balance requested",
		zap.Int64("actor_id", p.ID),
		zap.Int64("employee_id", req.EmployeeID),
		zap.Int64("type_id", req.TypeID),
		zap.Int("total_allocated", req.TotalAllocated),
	)

	var b *Balance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !exists {
			return balanceerrors.ErrEmployeeNotFound
		}

		exists, err = qtx.LeaveTypeExists(ctx, req.TypeID)
		if err != nil {
			return err
		}
		if !exists {
			return balanceerrors.ErrLeaveTypeNotFound
		}

		existing, err := qtx.FindByEmployeeAndTypeForUpdate(ctx, req.EmployeeID, req.TypeID)
		switch {
		case err == nil:
			if req.TotalAllocated < existing.TotalUsed {
				return balanceerrors.ErrAllocationBelowUsed
			}
			existing.TotalAllocated = req.TotalAllocated
			if err := qtx.Save(ctx, existing); err != nil {
				return err
			}
			b = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			b = &Balance{
				EmployeeID:     req.EmployeeID,
				TypeID:         req.TypeID,
				TotalAllocated: req.TotalAllocated,
			}
			if err := qtx.Create(ctx, b); err != nil {
				return err
			}
		default:
			return err
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "allocate_balance",
			TargetTable: "balances",
			TargetID:    b.ID,
		})
	})
	if err != nil {
		s.logger.Warn("allocate balance failed",
			zap.Int64("employee_id", req.EmployeeID),
			zap.Int64("type_id", req.TypeID),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	s.logger.Info("allocate balance success",
		zap.Int64("balance_id", b.ID),
		zap.Int64("employee_id", b.EmployeeID),
		zap.Int64("type_id", b.TypeID),
	)
	return mapToResponse(*b), nil
}

// Update is the explicit admin adjustment path. Both counters may move but
// the invariant 0 <= total_used <= total_allocated is enforced before write.
func (s *service) Update(ctx context.Context, p guard.Principal, id int64, req UpdateBalanceRequest) (BalanceResponse, error) {
	if !p.Allowed(guard.CapAllocateBalance) {
		return BalanceResponse{}, apperror.ErrForbidden
	}

	var b *Balance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		existing, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return balanceerrors.ErrBalanceNotFound
			}
			return err
		}

		allocated := existing.TotalAllocated
		used := existing.TotalUsed
		if req.TotalAllocated != nil {
			allocated = *req.TotalAllocated
		}
		if req.TotalUsed != nil {
			used = *req.TotalUsed
		}
		if allocated < 0 {
			return balanceerrors.ErrInvalidAmount
		}
		if used < 0 || used > allocated {
			return balanceerrors.ErrAllocationBelowUsed
		}

		existing.TotalAllocated = allocated
		existing.TotalUsed = used
		if err := qtx.Save(ctx, existing); err != nil {
			return err
		}
		b = existing

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "update_balance",
			TargetTable: "balances",
			TargetID:    b.ID,
		})
	})
	if err != nil {
		return BalanceResponse{}, err
	}

	return mapToResponse(*b), nil
}

func (s *service) Delete(ctx context.Context, p guard.Principal, id int64) error {
	if !p.Allowed(guard.CapAllocateBalance) {
		return apperror.ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return balanceerrors.ErrBalanceNotFound
			}
			return err
		}
		if err := qtx.Delete(ctx, id); err != nil {
			return err
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			Actor:       p,
			Action:      "delete_balance",
			TargetTable: "balances",
			TargetID:    id,
		})
	})
}

// ReserveCheck gives early feedback at submission time. It never mutates:
// days are not held while a request is pending, the hard gate is the debit
// at decision time. A missing balance row passes the check for the same
// reason, provisioning may happen before the request is decided.
func (s *service) ReserveCheck(ctx context.Context, employeeID, typeID int64, days int) error {
	b, err := s.repo.FindByEmployeeAndType(ctx, employeeID, typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if b.Remaining() < days {
		return balanceerrors.ErrInsufficientBalance
	}
	return nil
}

// Debit applies total_used += days under a row lock inside the caller's
// transaction. It fails whole, never partially, when the result would
// exceed the allocation.
func (s *service) Debit(ctx context.Context, tx *gorm.DB, employeeID, typeID int64, days int) (*Balance, error) {
	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindByEmployeeAndTypeForUpdate(ctx, employeeID, typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, balanceerrors.ErrBalanceNotFound
		}
		return nil, err
	}

	if b.TotalUsed+days > b.TotalAllocated {
		return nil, balanceerrors.ErrInsufficientBalance
	}

	b.TotalUsed += days
	if err := qtx.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func mapToResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		ID:             b.ID,
		EmployeeID:     b.EmployeeID,
		TypeID:         b.TypeID,
		TotalAllocated: b.TotalAllocated,
		TotalUsed:      b.TotalUsed,
		Remaining:      b.Remaining(),
	}
}

func mapToListResponse(balances []Balance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
