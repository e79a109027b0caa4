package basket

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"hrportal/internal/files"
	"hrportal/internal/leave"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive    = "active"
	StatusSubmitted = "submitted"
	StatusCleared   = "cleared"
)

// Item is one staged leave candidate. It keeps the nested taxonomy shape of
// the leave form rather than the flat type field of a persisted request.
type Item struct {
	MainCategory  string             `json:"mainCategory"`
	SubCategory   string             `json:"subCategory"`
	SpecificType  string             `json:"specificType,omitempty"`
	Dates         leave.DateEntries  `json:"dates"`
	Justification string             `json:"justification,omitempty"`
	Attachments   []files.Attachment `json:"attachments"`
	TotalDays     float64            `json:"totalDays"`
	AddedAt       time.Time          `json:"addedAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type Items []Item

func (i Items) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *Items) Scan(value any) error {
	return scanJSON(value, i)
}

// Summary is denormalized on every mutation so list endpoints never have to
// walk the items array.
type Summary struct {
	TotalItems              int     `json:"totalItems"`
	TotalDaysRequested      float64 `json:"totalDaysRequested"`
	ItemsWithAttachments    int     `json:"itemsWithAttachments"`
	ItemsWithJustifications int     `json:"itemsWithJustifications"`
}

func (s Summary) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Summary) Scan(value any) error {
	return scanJSON(value, s)
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

type Basket struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_baskets_employee_status"`
	Status     string    `gorm:"type:varchar(20);not null;default:'active';index:idx_baskets_employee_status"`

	Items   Items   `gorm:"type:jsonb;not null;default:'[]'"`
	Summary Summary `gorm:"type:jsonb;not null;default:'{}'"`

	SubmittedAt *time.Time
	ClearedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Basket) TableName() string {
	return "leave_baskets"
}

// Recalculate rebuilds the summary from the items.
func (b *Basket) Recalculate() {
	s := Summary{TotalItems: len(b.Items)}
	for _, item := range b.Items {
		s.TotalDaysRequested += item.TotalDays
		if len(item.Attachments) > 0 {
			s.ItemsWithAttachments++
		}
		if item.Justification != "" {
			s.ItemsWithJustifications++
		}
	}
	b.Summary = s
}
