package app

import (
	"context"

	"go-leave/internal/admin"
	"go-leave/internal/approval"
	"go-leave/internal/audit"
	"go-leave/internal/auth"
	"go-leave/internal/balance"
	"go-leave/internal/employee"
	"go-leave/internal/guard"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/manager"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	adminRepo := admin.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	managerRepo := manager.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	approvalRepo := approval.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	recorder := audit.NewRecorder(auditRepo)

	// --- Services ---
	authService := auth.NewService(map[guard.Role]auth.AccountLookup{
		guard.RoleAdmin: func(ctx context.Context, email string) (auth.Account, error) {
			a, err := adminRepo.FindByEmail(ctx, email)
			if err != nil {
				return auth.Account{}, err
			}
			return auth.Account{ID: a.ID, Email: a.Email, PasswordHash: a.PasswordHash}, nil
		},
		guard.RoleEmployee: func(ctx context.Context, email string) (auth.Account, error) {
			e, err := employeeRepo.FindByEmail(ctx, email)
			if err != nil {
				return auth.Account{}, err
			}
			return auth.Account{ID: e.ID, Email: e.Email, PasswordHash: e.PasswordHash}, nil
		},
		guard.RoleManager: func(ctx context.Context, email string) (auth.Account, error) {
			m, err := managerRepo.FindByEmail(ctx, email)
			if err != nil {
				return auth.Account{}, err
			}
			return auth.Account{ID: m.ID, Email: m.Email, PasswordHash: m.PasswordHash}, nil
		},
	})
	adminService := admin.NewService(gormDB, adminRepo, recorder)
	employeeService := employee.NewService(gormDB, employeeRepo, recorder)
	managerService := manager.NewService(gormDB, managerRepo, recorder)
	leaveTypeService := leavetype.NewService(gormDB, leaveTypeRepo, recorder, rdb)
	balanceService := balance.NewService(gormDB, balanceRepo, recorder)
	leaveService := leave.NewServiceWithOutbox(gormDB, leaveRepo, balanceService, recorder, outboxRepo)
	approvalService := approval.NewServiceWithOutbox(gormDB, approvalRepo, leaveRepo, balanceService, recorder, outboxRepo)
	auditService := audit.NewService(auditRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	adminHandler := admin.NewHandler(adminService)
	employeeHandler := employee.NewHandler(employeeService)
	managerHandler := manager.NewHandler(managerService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	balanceHandler := balance.NewHandler(balanceService)
	leaveHandler := leave.NewHandler(leaveService)
	approvalHandler := approval.NewHandlerWithRedis(approvalService, leaveService, rdb)
	auditHandler := audit.NewHandler(auditService)

	// --- Routes ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		admin.RegisterRoutes(api, adminHandler)
		employee.RegisterRoutes(api, employeeHandler)
		manager.RegisterRoutes(api, managerHandler)
		leavetype.RegisterRoutes(api, leaveTypeHandler)
		balance.RegisterRoutes(api, balanceHandler)
		leave.RegisterRoutes(api, leaveHandler)
		approval.RegisterRoutes(api, approvalHandler, rdb)
		audit.RegisterRoutes(api, auditHandler)
	}

	return nil
}
