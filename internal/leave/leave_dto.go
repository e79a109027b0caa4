package leave

import "hrportal/internal/files"

type DateEntryRequest struct {
	Date        string `json:"date" binding:"required"`
	IsHalfDay   bool   `json:"is_half_day"`
	HalfDayType string `json:"half_day_type" binding:"omitempty,oneof=morning afternoon"`
}

type CreateLeaveRequest struct {
	// Set only by HR/admin creating on behalf of someone else.
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`

	// Explicit approver designation. Honored for HR/admin actors only,
	// ignored for everyone else.
	ApproverID string `json:"approver_id" binding:"omitempty,uuid"`

	LeaveType   string `json:"leave_type" binding:"required"`
	SubCategory string `json:"sub_category"`

	Dates         []DateEntryRequest `json:"dates" binding:"required,min=1,dive"`
	Justification string             `json:"justification" binding:"max=500"`

	// Carried over from basket items on submission, never bound from JSON.
	Attachments []files.Attachment `json:"-"`

	ResponseDeadline int    `json:"response_deadline" binding:"omitempty,min=1,max=30"`
	Priority         string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// UpdateLeaveRequest mutates a still-pending request. Only set fields are
// touched, so a nil pointer means "leave as is".
type UpdateLeaveRequest struct {
	Justification    *string            `json:"justification" binding:"omitempty,max=500"`
	Priority         *string            `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	ResponseDeadline *int               `json:"response_deadline" binding:"omitempty,min=1,max=30"`
	Dates            []DateEntryRequest `json:"dates" binding:"omitempty,dive"`
}

type ApproveLeaveRequest struct {
	Comments string `json:"comments" binding:"max=300"`
}

type RejectLeaveRequest struct {
	Reason   string `json:"reason" binding:"required"`
	Comments string `json:"comments" binding:"max=300"`
}

type CancelLeaveRequest struct {
	Reason string `json:"reason" binding:"max=300"`
}

type AddCommentRequest struct {
	Content   string `json:"content" binding:"required,max=300"`
	IsPrivate bool   `json:"is_private"`
}

type ChangeRecordResponse struct {
	ChangedBy  string `json:"changed_by"`
	ChangeType string `json:"change_type"`
	Reason     string `json:"reason,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type DateEntryResponse struct {
	Date        string `json:"date"`
	IsHalfDay   bool   `json:"is_half_day"`
	HalfDayType string `json:"half_day_type,omitempty"`
}

type LeaveResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	ApproverID  string `json:"approver_id"`
	LeaveType   string `json:"leave_type"`
	SubCategory string `json:"sub_category,omitempty"`

	Dates     []DateEntryResponse `json:"dates"`
	TotalDays float64             `json:"total_days"`
	Status    string              `json:"status"`

	Justification string      `json:"justification,omitempty"`
	Comments      Comments    `json:"comments"`
	Attachments   Attachments `json:"attachments"`

	ResponseDeadline int    `json:"response_deadline"`
	Priority         string `json:"priority"`

	ApprovedAt      *string `json:"approved_at,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	CancelledAt     *string `json:"cancelled_at,omitempty"`
	CancelledBy     *string `json:"cancelled_by,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`

	BalanceSnapshot BalanceSnapshot `json:"balance_snapshot"`
	CreatedAt       string          `json:"created_at"`
}
