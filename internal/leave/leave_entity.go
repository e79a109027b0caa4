package leave

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"hrportal/internal/files"
	"hrportal/internal/ledger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"

	HalfDayMorning   = "morning"
	HalfDayAfternoon = "afternoon"
)

// DateEntry is one requested day, possibly a half day.
type DateEntry struct {
	Date        time.Time `json:"date"`
	IsHalfDay   bool      `json:"isHalfDay"`
	HalfDayType string    `json:"halfDayType,omitempty"`
}

type DateEntries []DateEntry

func (d DateEntries) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *DateEntries) Scan(value any) error {
	return scanJSON(value, d)
}

// TotalDays sums one per full day and a half per half day. Always derived
// from the entries, never trusted from client input.
func (d DateEntries) TotalDays() float64 {
	var total float64
	for _, e := range d {
		if e.IsHalfDay {
			total += 0.5
		} else {
			total += 1
		}
	}
	return total
}

type Comment struct {
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsPrivate bool      `json:"isPrivate"`
}

type Comments []Comment

func (c Comments) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *Comments) Scan(value any) error {
	return scanJSON(value, c)
}

type Attachments []files.Attachment

func (a Attachments) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Attachments) Scan(value any) error {
	return scanJSON(value, a)
}

// ChangeRecord logs one mutation of the request.
type ChangeRecord struct {
	ChangedBy  string    `json:"changedBy"`
	ChangeType string    `json:"changeType"`
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type ChangeHistory []ChangeRecord

func (h ChangeHistory) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *ChangeHistory) Scan(value any) error {
	return scanJSON(value, h)
}

// BalanceSnapshot stores the ledger state captured at creation, for audit.
type BalanceSnapshot ledger.Snapshot

func (b BalanceSnapshot) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *BalanceSnapshot) Scan(value any) error {
	return scanJSON(value, b)
}

func scanJSON(value, dest any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type: %T", value)
	}
}

type LeaveRequest struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_status"`
	ApproverID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_approver_status"`

	LeaveType   string `gorm:"type:varchar(50);not null;index:idx_leave_requests_type"`
	SubCategory string `gorm:"type:varchar(100)"`

	Dates     DateEntries `gorm:"type:jsonb;not null;default:'[]'"`
	TotalDays float64     `gorm:"type:numeric(6,2);not null"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_employee_status,idx_leave_requests_approver_status"`

	Justification string      `gorm:"type:varchar(500)"`
	Comments      Comments    `gorm:"type:jsonb;not null;default:'[]'"`
	Attachments   Attachments `gorm:"type:jsonb;not null;default:'[]'"`

	ResponseDeadline int    `gorm:"type:int;not null;default:7"`
	Priority         string `gorm:"type:varchar(10);not null;default:'normal'"`

	ApprovedAt  *time.Time
	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`
	RejectedAt  *time.Time
	RejectedBy  *uuid.UUID `gorm:"type:uuid"`
	CancelledAt *time.Time
	CancelledBy *uuid.UUID `gorm:"type:uuid"`

	RejectionReason string `gorm:"type:varchar(300)"`

	BalanceSnapshot BalanceSnapshot `gorm:"type:jsonb;not null;default:'{}'"`
	ChangeHistory   ChangeHistory   `gorm:"type:jsonb;not null;default:'[]'"`

	CreatedAt time.Time `gorm:"index:idx_leave_requests_created_at,sort:desc"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

// RecordChange appends one entry to the mutation log.
func (l *LeaveRequest) RecordChange(actorID, changeType, reason string) {
	l.ChangeHistory = append(l.ChangeHistory, ChangeRecord{
		ChangedBy:  actorID,
		ChangeType: changeType,
		Reason:     reason,
		Timestamp:  time.Now().UTC(),
	})
}

// AddComment appends to the conversation thread.
func (l *LeaveRequest) AddComment(authorID, content string, isPrivate bool) {
	l.Comments = append(l.Comments, Comment{
		Author:    authorID,
		Content:   content,
		Timestamp: time.Now().UTC(),
		IsPrivate: isPrivate,
	})
}

func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	if currentStatus != StatusPending {
		return false
	}
	switch targetStatus {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}
