package employeeerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyUsed = apperror.New(
		apperror.CodeConflict,
		"email is already used",
		http.StatusConflict,
	)
	// ErrEmployeeInUse guards deletion while leave requests or balances
	// still reference the employee.
	ErrEmployeeInUse = apperror.New(
		apperror.CodeConflict,
		"employee still has leave data and cannot be deleted",
		http.StatusConflict,
	)
)
