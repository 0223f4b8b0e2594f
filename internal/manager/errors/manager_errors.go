package managererrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrManagerNotFound = apperror.New(
		apperror.CodeNotFound,
		"manager not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyUsed = apperror.New(
		apperror.CodeConflict,
		"email is already used",
		http.StatusConflict,
	)
)
