package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveBalance is mutated only through the ledger debit, never directly.
// Invariant: AvailableLeaves = TotalLeaves - UsedLeaves.
type LeaveBalance struct {
	TotalLeaves     float64 `gorm:"type:numeric(6,2);not null;default:25"`
	UsedLeaves      float64 `gorm:"type:numeric(6,2);not null;default:0"`
	AvailableLeaves float64 `gorm:"type:numeric(6,2);not null;default:25"`
	RTTBalance      float64 `gorm:"type:numeric(6,2);not null;default:10"`
	CPPBalance      float64 `gorm:"type:numeric(6,2);not null;default:12"`
}

type Employee struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Email     string `gorm:"type:varchar(255);not null;uniqueIndex:idx_employees_email"`

	Role       string `gorm:"type:varchar(20);not null;default:'employee';index:idx_employees_role_active"`
	Department string `gorm:"type:varchar(100)"`
	Position   string `gorm:"type:varchar(100)"`

	ManagerID *uuid.UUID `gorm:"type:uuid;index:idx_employees_manager"`
	TeamID    *uuid.UUID `gorm:"type:uuid;index:idx_employees_team"`

	IsActive bool `gorm:"not null;default:true;index:idx_employees_role_active"`

	Balance LeaveBalance `gorm:"embedded;embeddedPrefix:balance_"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
