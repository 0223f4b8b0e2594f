package employee_test

import (
	"context"
	"testing"

	"go-leave/internal/audit"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/guard"
	"go-leave/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	createFn       func(ctx context.Context, e *employee.Employee) error
	saveFn         func(ctx context.Context, e *employee.Employee) error
	deleteFn       func(ctx context.Context, id int64) error
	findByIDFn     func(ctx context.Context, id int64) (*employee.Employee, error)
	findByEmailFn  func(ctx context.Context, email string) (*employee.Employee, error)
	findAllFn      func(ctx context.Context) ([]employee.Employee, error)
	hasLeaveDataFn func(ctx context.Context, id int64) (bool, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *gorm.DB) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) Save(ctx context.Context, e *employee.Employee) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) HasLeaveData(ctx context.Context, id int64) (bool, error) {
	if f.hasLeaveDataFn != nil {
		return f.hasLeaveDataFn(ctx, id)
	}
	return false, nil
}

type fakeRecorder struct {
	entries []audit.Entry
}

func (f *fakeRecorder) Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type employeeServiceDeps struct {
	sqlMock  sqlmock.Sqlmock
	service  employee.Service
	repo     *fakeEmployeeRepository
	recorder *fakeRecorder
	closeFn  func()
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	repo := &fakeEmployeeRepository{}
	recorder := &fakeRecorder{}
	svc := employee.NewService(gormDB, repo, recorder)

	return &employeeServiceDeps{
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		recorder: recorder,
		closeFn:  func() { db.Close() },
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
	adminPrincipal    = guard.Principal{ID: 1, Role: guard.RoleAdmin}
	employeePrincipal = guard.Principal{ID: 10, Role: guard.RoleEmployee}
)

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes the password", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, true)
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			e.ID = 10
			assert.Equal(t, "Dina", e.Name)
			assert.Equal(t, "dina@example.com", e.Email)
			assert.NotEqual(t, "s3cret-pass", e.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte("s3cret-pass")))
			return nil
		}

		resp, err := deps.service.Create(ctx, adminPrincipal, employee.CreateEmployeeRequest{
			Name:     "Dina",
			Email:    "dina@example.com",
			Password: "s3cret-pass",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(10), resp.ID)
		assert.Len(t, deps.recorder.entries, 1)
		assert.Equal(t, "create_employee", deps.recorder.entries[0].Action)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_email"}
		}

		_, err := deps.service.Create(ctx, adminPrincipal, employee.CreateEmployeeRequest{
			Name:     "Dina",
			Email:    "dina@example.com",
			Password: "s3cret-pass",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmailAlreadyUsed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-admin cannot create", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.Create(ctx, employeePrincipal, employee.CreateEmployeeRequest{
			Name:     "Dina",
			Email:    "dina@example.com",
			Password: "s3cret-pass",
		})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success employee reads own record", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.closeFn()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return &employee.Employee{ID: id, Name: "Dina", Email: "dina@example.com"}, nil
		}

		resp, err := deps.service.GetByID(ctx, employeePrincipal, 10)

		assert.NoError(t, err)
		assert.Equal(t, "Dina", resp.Name)
	})

	t.Run("negative employee reads another record", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.GetByID(ctx, employeePrincipal, 11)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("negative unknown id", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.GetByID(ctx, adminPrincipal, 99)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return &employee.Employee{ID: id}, nil
		}

		err := deps.service.Delete(ctx, adminPrincipal, 10)

		assert.NoError(t, err)
		assert.Len(t, deps.recorder.entries, 1)
		assert.Equal(t, "delete_employee", deps.recorder.entries[0].Action)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative employee still has leave data", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return &employee.Employee{ID: id}, nil
		}
		deps.repo.hasLeaveDataFn = func(ctx context.Context, id int64) (bool, error) {
			return true, nil
		}

		err := deps.service.Delete(ctx, adminPrincipal, 10)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeInUse)
		assert.Empty(t, deps.recorder.entries)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
