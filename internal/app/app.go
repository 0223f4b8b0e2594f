package app

import (
	"os"

	"go-leave/internal/admin"
	"go-leave/internal/approval"
	"go-leave/internal/audit"
	"go-leave/internal/balance"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/manager"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure, migrates the schema and wires
// every module onto the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		// Redis backs the idempotency and option caches only; the API
		// stays correct without it.
		zap.L().Warn("redis unavailable, caching and idempotency disabled", zap.Error(err))
		redisClient = nil
	} else {
		zap.L().Info("redis connection established")
	}

	return registerModules(router, gormDB, redisClient)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&admin.Admin{},
		&employee.Employee{},
		&manager.Manager{},
		&leavetype.LeaveType{},
		&balance.Balance{},
		&leave.LeaveRequest{},
		&approval.Approval{},
		&audit.AuditLog{},
		&kafka.OutboxEvent{},
	)
}
