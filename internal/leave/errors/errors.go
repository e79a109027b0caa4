package leaveerrors

import (
	"net/http"

	"hrportal/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrNoDates = apperror.New(
		apperror.CodeInvalidInput,
		"at least one date is required",
		http.StatusBadRequest,
	)
	ErrInvalidHalfDayType = apperror.New(
		apperror.CodeInvalidInput,
		"half_day_type must be morning or afternoon",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidDate,
		"dates must use the YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidDate,
		"end date must not precede start date",
		http.StatusBadRequest,
	)
	ErrPastDate = apperror.New(
		apperror.CodeInvalidDate,
		"dates in the past are not allowed for this leave type",
		http.StatusBadRequest,
	)
	ErrInvalidApproverID = apperror.New(
		apperror.CodeInvalidInput,
		"the designated approver does not exist or is inactive",
		http.StatusBadRequest,
	)
	ErrNoApproverFound = apperror.New(
		apperror.CodeNoApproverFound,
		"no approver could be resolved for this request",
		http.StatusUnprocessableEntity,
	)
	ErrLeaveNotPending = apperror.New(
		apperror.CodeLeaveNotPending,
		"this leave request is no longer pending",
		http.StatusBadRequest,
	)
	ErrNotRequestApprover = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to decide on this leave request",
		http.StatusForbidden,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to modify this leave request",
		http.StatusForbidden,
	)
	ErrRejectionReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"rejection reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrProcessedImmutable = apperror.New(
		apperror.CodeInvalidState,
		"processed leave requests can no longer be modified",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidStatusTransition,
		"invalid leave status transition",
		http.StatusBadRequest,
	)
)
