package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leave/internal/audit"
	"go-leave/internal/guard"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAuditRepository struct {
	createFn      func(ctx context.Context, e *audit.AuditLog) error
	findAllFn     func(ctx context.Context) ([]audit.AuditLog, error)
	findByActorFn func(ctx context.Context, actorType string, actorID int64) ([]audit.AuditLog, error)
}

func (f *fakeAuditRepository) WithTx(tx *gorm.DB) audit.Repository { return f }

func (f *fakeAuditRepository) Create(ctx context.Context, e *audit.AuditLog) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeAuditRepository) FindAll(ctx context.Context) ([]audit.AuditLog, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeAuditRepository) FindByActor(ctx context.Context, actorType string, actorID int64) ([]audit.AuditLog, error) {
	if f.findByActorFn != nil {
		return f.findByActorFn(ctx, actorType, actorID)
	}
	return nil, nil
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("success stamps actor and time", func(t *testing.T) {
		var stored *audit.AuditLog
		repo := &fakeAuditRepository{
			createFn: func(ctx context.Context, e *audit.AuditLog) error {
				stored = e
				return nil
			},
		}

		rec := audit.NewRecorder(repo)
		err := rec.Record(ctx, nil, audit.Entry{
			Actor:       guard.Principal{ID: 20, Role: guard.RoleManager},
			Action:      "decide_leave_approved",
			TargetTable: "leave_requests",
			TargetID:    5,
		})

		assert.NoError(t, err)
		assert.Equal(t, "manager", stored.ActorType)
		assert.Equal(t, int64(20), stored.ActorID)
		assert.Equal(t, "decide_leave_approved", stored.Action)
		assert.Equal(t, "leave_requests", stored.TargetTable)
		assert.Equal(t, int64(5), stored.TargetID)
		assert.WithinDuration(t, time.Now().UTC(), stored.Timestamp, time.Minute)
	})

	t.Run("negative repo failure surfaces", func(t *testing.T) {
		repo := &fakeAuditRepository{
			createFn: func(ctx context.Context, e *audit.AuditLog) error {
				return errors.New("insert failed")
			},
		}

		rec := audit.NewRecorder(repo)
		err := rec.Record(ctx, nil, audit.Entry{
			Actor:  guard.Principal{ID: 1, Role: guard.RoleAdmin},
			Action: "create_employee",
		})

		assert.Error(t, err)
	})
}

func TestAuditService_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("success get all", func(t *testing.T) {
		repo := &fakeAuditRepository{
			findAllFn: func(ctx context.Context) ([]audit.AuditLog, error) {
				return []audit.AuditLog{
					{ID: 1, ActorType: "admin", ActorID: 1, Action: "create_employee", TargetTable: "employees", TargetID: 10, Timestamp: time.Now().UTC()},
				}, nil
			},
		}

		resp, err := audit.NewService(repo).GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "create_employee", resp[0].Action)
	})

	t.Run("success filter by actor", func(t *testing.T) {
		repo := &fakeAuditRepository{
			findByActorFn: func(ctx context.Context, actorType string, actorID int64) ([]audit.AuditLog, error) {
				assert.Equal(t, "manager", actorType)
				assert.Equal(t, int64(20), actorID)
				return []audit.AuditLog{{ID: 2, ActorType: actorType, ActorID: actorID}}, nil
			},
		}

		resp, err := audit.NewService(repo).GetByActor(ctx, "manager", 20)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("negative repo error surfaces", func(t *testing.T) {
		repo := &fakeAuditRepository{
			findAllFn: func(ctx context.Context) ([]audit.AuditLog, error) {
				return nil, errors.New("db error")
			},
		}

		_, err := audit.NewService(repo).GetAll(ctx)
		assert.Error(t, err)
	})
}
