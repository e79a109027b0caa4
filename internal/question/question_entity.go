package question

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"hrportal/internal/files"
	questionerrors "hrportal/internal/question/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusInReview  = "in-review"
	StatusAnswered  = "answered"
	StatusClosed    = "closed"
	StatusCancelled = "cancelled"
)

// responseDeadlineDays is the HR answer window, reset whenever the author
// posts a new message.
const responseDeadlineDays = 7

// categories maps each question category to its allowed sub categories,
// mirroring the HR portal question form.
var categories = map[string][]string{
	"Attestations": {"Attestation", "Autre"},
	"Congés":       {"Congés", "Congés exceptionnels", "Autre"},
	"Données administratives": {
		"Demande de badge", "Déménagement", "Mode de transport", "Autre",
	},
	"Données contractuelles": {"Période d'essai", "Temps de travail", "Autre"},
	"Données personnelles": {
		"Changement d'adresse", "Enfants à charge", "Etat civil",
		"Personnes à contacter", "Photo", "Situation familiale", "Autre",
	},
	"Maladie": {"Arret de travail", "Autre"},
	"Autre":   {"Autre"},
}

// ValidateCategory checks a category and sub category pair against the
// question taxonomy.
func ValidateCategory(category, subCategory string) error {
	subs, ok := categories[category]
	if !ok {
		return questionerrors.ErrInvalidCategory
	}
	for _, s := range subs {
		if s == subCategory {
			return nil
		}
	}
	return questionerrors.ErrInvalidCategory
}

// Categories returns the full question taxonomy for the catalog endpoint.
func Categories() map[string][]string {
	out := make(map[string][]string, len(categories))
	for cat, subs := range categories {
		out[cat] = append([]string(nil), subs...)
	}
	return out
}

// isAllowedStatusTransition enforces the terminal state rules. A closed
// question can never go back into the working states and a cancelled one
// can additionally never become answered.
func isAllowedStatusTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusClosed:
		return to == StatusAnswered || to == StatusCancelled
	case StatusCancelled:
		return to == StatusClosed
	default:
		return true
	}
}

type Message struct {
	Author     string             `json:"author"`
	Content    string             `json:"message"`
	Timestamp  time.Time          `json:"timestamp"`
	IsInternal bool               `json:"isInternal"`
	Attachments []files.Attachment `json:"attachments,omitempty"`
}

type Conversations []Message

func (c Conversations) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *Conversations) Scan(value any) error {
	return scanJSON(value, c)
}

type StatusChange struct {
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ChangedBy  string    `json:"changedBy"`
	ChangedAt  time.Time `json:"changedAt"`
	Reason     string    `json:"reason,omitempty"`
}

type StatusHistory []StatusChange

func (h StatusHistory) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *StatusHistory) Scan(value any) error {
	return scanJSON(value, h)
}

type Attachments []files.Attachment

func (a Attachments) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Attachments) Scan(value any) error {
	return scanJSON(value, a)
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

type HRQuestion struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	AuthorID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_hr_questions_author"`
	BeneficiaryID *uuid.UUID `gorm:"type:uuid"`

	Category    string `gorm:"type:varchar(50);not null;index:idx_hr_questions_category"`
	SubCategory string `gorm:"type:varchar(50);not null"`

	Title       string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text;not null"`

	Status   string `gorm:"type:varchar(20);not null;default:'submitted';index:idx_hr_questions_status"`
	Priority string `gorm:"type:varchar(10);not null;default:'normal'"`

	NotifyBeneficiary  bool `gorm:"not null;default:false"`
	EmailNotifications bool `gorm:"not null;default:true"`

	Attachments   Attachments   `gorm:"type:jsonb;not null;default:'[]'"`
	Conversations Conversations `gorm:"type:jsonb;not null;default:'[]'"`
	StatusHistory StatusHistory `gorm:"type:jsonb;not null;default:'[]'"`

	AssignedTo *uuid.UUID `gorm:"type:uuid;index:idx_hr_questions_assigned"`

	ResponseDeadline *time.Time
	AnsweredAt       *time.Time
	ClosedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (HRQuestion) TableName() string {
	return "hr_questions"
}

func (q *HRQuestion) AddMessage(authorID, content string, isInternal bool) {
	q.Conversations = append(q.Conversations, Message{
		Author:     authorID,
		Content:    content,
		Timestamp:  time.Now().UTC(),
		IsInternal: isInternal,
	})
}

// ChangeStatus applies a guarded transition and stamps answeredAt and
// closedAt only the first time those states are reached.
func (q *HRQuestion) ChangeStatus(newStatus, changedBy, reason string) error {
	if !isAllowedStatusTransition(q.Status, newStatus) {
		return questionerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	q.StatusHistory = append(q.StatusHistory, StatusChange{
		FromStatus: q.Status,
		ToStatus:   newStatus,
		ChangedBy:  changedBy,
		ChangedAt:  now,
		Reason:     reason,
	})
	q.Status = newStatus

	if newStatus == StatusAnswered && q.AnsweredAt == nil {
		q.AnsweredAt = &now
	}
	if newStatus == StatusClosed && q.ClosedAt == nil {
		q.ClosedAt = &now
	}
	return nil
}

// ResetDeadline pushes the response deadline out after author activity.
func (q *HRQuestion) ResetDeadline() {
	deadline := time.Now().UTC().AddDate(0, 0, responseDeadlineDays)
	q.ResponseDeadline = &deadline
}

func (q *HRQuestion) IsOverdue() bool {
	return q.ResponseDeadline != nil &&
		q.ResponseDeadline.Before(time.Now().UTC()) &&
		q.Status == StatusSubmitted
}
