package adminerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrAdminNotFound = apperror.New(
		apperror.CodeNotFound,
		"admin not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyUsed = apperror.New(
		apperror.CodeConflict,
		"email is already used",
		http.StatusConflict,
	)
	// ErrLastAdmin refuses removal of the only remaining admin account.
	ErrLastAdmin = apperror.New(
		apperror.CodeConflict,
		"cannot delete the last admin",
		http.StatusConflict,
	)
)
