package teamerrors

import (
	"net/http"

	"hrportal/internal/shared/apperror"
)

var (
	ErrTeamNotFound = apperror.New(
		apperror.CodeNotFound,
		"team not found",
		http.StatusNotFound,
	)
	ErrInvalidTeamID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid team id",
		http.StatusBadRequest,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid manager id",
		http.StatusBadRequest,
	)
	ErrAlreadyMember = apperror.New(
		apperror.CodeConflict,
		"employee is already an active member of this team",
		http.StatusConflict,
	)
	ErrNotAMember = apperror.New(
		apperror.CodeNotFound,
		"employee is not a member of this team",
		http.StatusNotFound,
	)
	ErrAlreadyCoLead = apperror.New(
		apperror.CodeConflict,
		"employee is already a co-lead of this team",
		http.StatusConflict,
	)
	ErrInvalidMemberRole = apperror.New(
		apperror.CodeInvalidInput,
		"member role must be member or co-lead",
		http.StatusBadRequest,
	)
)
