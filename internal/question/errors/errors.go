package questionerrors

import (
	"net/http"

	"hrportal/internal/shared/apperror"
)

var (
	ErrInvalidQuestionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid question id",
		http.StatusBadRequest,
	)
	ErrQuestionNotFound = apperror.New(
		apperror.CodeNotFound,
		"question not found",
		http.StatusNotFound,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"invalid question category combination",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidStatusTransition,
		"this status change is not allowed",
		http.StatusBadRequest,
	)
	ErrNotQuestionAuthor = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to modify this question",
		http.StatusForbidden,
	)
	ErrInternalMessageForbidden = apperror.New(
		apperror.CodeForbidden,
		"internal notes are reserved to HR staff",
		http.StatusForbidden,
	)
	ErrDraftOnlyDeletion = apperror.New(
		apperror.CodeInvalidState,
		"only draft questions can be deleted",
		http.StatusBadRequest,
	)
	ErrNotDraft = apperror.New(
		apperror.CodeInvalidState,
		"question has already been submitted",
		http.StatusBadRequest,
	)
)
