package ledgererrors

import (
	"net/http"

	"hrportal/internal/shared/apperror"
)

var (
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidDebitAmount = apperror.New(
		apperror.CodeInvalidInput,
		"debit amount must be a positive multiple of 0.5",
		http.StatusBadRequest,
	)
)
