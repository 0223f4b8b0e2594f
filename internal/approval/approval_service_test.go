package approval_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/approval"
	approvalerrors "go-leave/internal/approval/errors"
	"go-leave/internal/audit"
	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/guard"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeApprovalRepository struct {
	createFn        func(ctx context.Context, a *approval.Approval) error
	findByIDFn      func(ctx context.Context, id int64) (*approval.Approval, error)
	findByLeaveIDFn func(ctx context.Context, leaveID int64) (*approval.Approval, error)
	findAllFn       func(ctx context.Context) ([]approval.Approval, error)
}

func (f *fakeApprovalRepository) WithTx(tx *gorm.DB) approval.Repository { return f }

func (f *fakeApprovalRepository) Create(ctx context.Context, a *approval.Approval) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeApprovalRepository) FindByID(ctx context.Context, id int64) (*approval.Approval, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeApprovalRepository) FindByLeaveID(ctx context.Context, leaveID int64) (*approval.Approval, error) {
	if f.findByLeaveIDFn != nil {
		return f.findByLeaveIDFn(ctx, leaveID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeApprovalRepository) FindAll(ctx context.Context) ([]approval.Approval, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

type fakeLeaveRepository struct {
	updateFn            func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDForUpdateFn func(ctx context.Context, id int64) (*leave.LeaveRequest, error)
}

func (f *fakeLeaveRepository) WithTx(tx *gorm.DB) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error { return nil }

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByIDForUpdate(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByEmployee(ctx context.Context, employeeID int64) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) LeaveTypeExists(ctx context.Context, typeID int64) (bool, error) {
	return true, nil
}

type fakeBalanceLedger struct {
	debitFn func(ctx context.Context, tx *gorm.DB, employeeID, typeID int64, days int) (*balance.Balance, error)
	calls   int
}

func (f *fakeBalanceLedger) Debit(ctx context.Context, tx *gorm.DB, employeeID, typeID int64, days int) (*balance.Balance, error) {
	f.calls++
	if f.debitFn != nil {
		return f.debitFn(ctx, tx, employeeID, typeID, days)
	}
	return &balance.Balance{EmployeeID: employeeID, TypeID: typeID}, nil
}

type fakeRecorder struct {
	entries []audit.Entry
}

func (f *fakeRecorder) Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type approvalServiceDeps struct {
	sqlMock   sqlmock.Sqlmock
	service   approval.Service
	repo      *fakeApprovalRepository
	leaveRepo *fakeLeaveRepository
	ledger    *fakeBalanceLedger
	recorder  *fakeRecorder
	closeFn   func()
}

func setupApprovalServiceTest(t *testing.T) *approvalServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	repo := &fakeApprovalRepository{}
	leaveRepo := &fakeLeaveRepository{}
	ledger := &fakeBalanceLedger{}
	recorder := &fakeRecorder{}
	svc := approval.NewService(gormDB, repo, leaveRepo, ledger, recorder)

	return &approvalServiceDeps{
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		leaveRepo: leaveRepo,
		ledger:    ledger,
		recorder:  recorder,
		closeFn:   func() { db.Close() },
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

var (
	managerPrincipal  = guard.Principal{ID: 20, Role: guard.RoleManager}
	employeePrincipal = guard.Principal{ID: 10, Role: guard.RoleEmployee}
)

func pendingLeave() *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:         5,
		EmployeeID: 10,
		TypeID:     2,
		StartTime:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC),
		Status:     leave.StatusPending,
	}
}

func TestApprovalService_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("success approve debits balance", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, true)
		deps.leaveRepo.findByIDForUpdateFn = func(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
			assert.Equal(t, int64(5), id)
			return pendingLeave(), nil
		}
		deps.ledger.debitFn = func(ctx context.Context, tx *gorm.DB, employeeID, typeID int64, days int) (*balance.Balance, error) {
			assert.Equal(t, int64(10), employeeID)
			assert.Equal(t, int64(2), typeID)
			assert.Equal(t, 3, days)
			return &balance.Balance{EmployeeID: employeeID, TypeID: typeID, TotalAllocated: 12, TotalUsed: 3}, nil
		}
		var updatedStatus string
		deps.leaveRepo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			updatedStatus = l.Status
			return nil
		}
		deps.repo.createFn = func(ctx context.Context, a *approval.Approval) error {
			a.ID = 7
			assert.Equal(t, int64(5), a.LeaveID)
			assert.Equal(t, int64(20), a.ApprovedBy)
			assert.Equal(t, approval.DecisionApproved, a.Decision)
			return nil
		}

		resp, err := deps.service.Decide(ctx, managerPrincipal, approval.DecideRequest{
			LeaveID:  5,
			Decision: approval.DecisionApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, leave.StatusApproved, updatedStatus)
		assert.Equal(t, 1, deps.ledger.calls)
		assert.Len(t, deps.recorder.entries, 1)
		assert.Equal(t, "decide_leave_approved", deps.recorder.entries[0].Action)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success reject leaves balance untouched", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, true)
		deps.leaveRepo.findByIDForUpdateFn = func(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		var updatedStatus string
		deps.leaveRepo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			updatedStatus = l.Status
			return nil
		}

		resp, err := deps.service.Decide(ctx, managerPrincipal, approval.DecideRequest{
			LeaveID:  5,
			Decision: approval.DecisionRejected,
		})

		assert.NoError(t, err)
		assert.Equal(t, approval.DecisionRejected, resp.Decision)
		assert.Equal(t, leave.StatusRejected, updatedStatus)
		assert.Zero(t, deps.ledger.calls)
		assert.Len(t, deps.recorder.entries, 1)
		assert.Equal(t, "decide_leave_rejected", deps.recorder.entries[0].Action)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance keeps request pending", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)
		deps.leaveRepo.findByIDForUpdateFn = func(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.ledger.debitFn = func(ctx context.Context, tx *gorm.DB, employeeID, typeID int64, days int) (*balance.Balance, error) {
			return nil, balanceerrors.ErrInsufficientBalance
		}
		updated := false
		deps.leaveRepo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			updated = true
			return nil
		}

		_, err := deps.service.Decide(ctx, managerPrincipal, approval.DecideRequest{
			LeaveID:  5,
			Decision: approval.DecisionApproved,
		})

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		assert.False(t, updated)
		assert.Empty(t, deps.recorder.entries)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)
		deps.leaveRepo.findByIDForUpdateFn = func(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
			l := pendingLeave()
			l.Status = leave.StatusApproved
			return l, nil
		}

		_, err := deps.service.Decide(ctx, managerPrincipal, approval.DecideRequest{
			LeaveID:  5,
			Decision: approval.DecisionRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyDecided)
		assert.Zero(t, deps.ledger.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative concurrent decision loses on unique index", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)
		deps.leaveRepo.findByIDForUpdateFn = func(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.repo.createFn = func(ctx context.Context, a *approval.Approval) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_approvals_leave_id"}
		}

		_, err := deps.service.Decide(ctx, managerPrincipal, approval.DecideRequest{
			LeaveID:  5,
			Decision: approval.DecisionRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyDecided)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown leave", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Decide(ctx, managerPrincipal, approval.DecideRequest{
			LeaveID:  99,
			Decision: approval.DecisionApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid decision value", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.Decide(ctx, managerPrincipal, approval.DecideRequest{
			LeaveID:  5,
			Decision: "cancelled",
		})

		assert.ErrorIs(t, err, approvalerrors.ErrInvalidDecision)
	})

	t.Run("negative employee cannot decide", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.Decide(ctx, employeePrincipal, approval.DecideRequest{
			LeaveID:  5,
			Decision: approval.DecisionApproved,
		})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("negative transient conflict retries then gives up", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		// One begin/rollback pair per attempt.
		for i := 0; i < 3; i++ {
			expectTx(t, deps.sqlMock, false)
		}
		attempts := 0
		deps.leaveRepo.findByIDForUpdateFn = func(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
			attempts++
			return nil, &pgconn.PgError{Code: "40001"}
		}

		_, err := deps.service.Decide(ctx, managerPrincipal, approval.DecideRequest{
			LeaveID:  5,
			Decision: approval.DecisionApproved,
		})

		assert.ErrorIs(t, err, apperror.ErrConflict)
		assert.Equal(t, 3, attempts)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestApprovalService_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("success manager reads decisions", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		deps.repo.findAllFn = func(ctx context.Context) ([]approval.Approval, error) {
			return []approval.Approval{
				{ID: 1, LeaveID: 5, ApprovedBy: 20, ApprovedAt: time.Now().UTC(), Decision: approval.DecisionApproved},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, managerPrincipal)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, approval.DecisionApproved, resp[0].Decision)
	})

	t.Run("negative employee cannot read decisions", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.GetAll(ctx, employeePrincipal)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("negative unknown approval id", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.GetByID(ctx, managerPrincipal, 99)
		assert.ErrorIs(t, err, approvalerrors.ErrApprovalNotFound)
	})
}
