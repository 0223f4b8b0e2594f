package admin

import (
	"errors"
	"strings"

	adminerrors "go-leave/internal/admin/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return adminerrors.ErrAdminNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return adminerrors.ErrEmailAlreadyUsed
	}

	if strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint") {
		return adminerrors.ErrEmailAlreadyUsed
	}

	return err
}
