package autherrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	// ErrInvalidCredentials is deliberately the same for a missing account
	// and a wrong password so login does not leak which emails exist.
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"invalid email or password",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		"INVALID_TOKEN",
		"invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		"TOKEN_EXPIRED",
		"token has expired",
		http.StatusUnauthorized,
	)
)
