package manager

import (
	"errors"
	"strings"

	managererrors "go-leave/internal/manager/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return managererrors.ErrManagerNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return managererrors.ErrEmailAlreadyUsed
	}

	if strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint") {
		return managererrors.ErrEmailAlreadyUsed
	}

	return err
}
