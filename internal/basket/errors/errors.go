package basketerrors

import (
	"net/http"

	"hrportal/internal/shared/apperror"
)

var (
	ErrBasketNotFound = apperror.New(
		apperror.CodeNotFound,
		"basket not found",
		http.StatusNotFound,
	)
	ErrInvalidIndex = apperror.New(
		apperror.CodeInvalidIndex,
		"basket item index out of range",
		http.StatusBadRequest,
	)
	ErrEmptyBasket = apperror.New(
		apperror.CodeEmptyBasket,
		"cannot submit an empty basket",
		http.StatusBadRequest,
	)
	ErrBasketNotActive = apperror.New(
		apperror.CodeInvalidState,
		"basket has already been submitted or cleared",
		http.StatusBadRequest,
	)
	ErrPastDate = apperror.New(
		apperror.CodeInvalidDate,
		"regular leave cannot start before tomorrow",
		http.StatusBadRequest,
	)
	ErrJustificationTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"justification must be at least 3 characters",
		http.StatusBadRequest,
	)
)
