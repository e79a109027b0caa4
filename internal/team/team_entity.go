package team

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MemberRoleMember = "member"
	MemberRoleCoLead = "co-lead"
)

type TeamMember struct {
	EmployeeID string     `json:"employeeId"`
	Role       string     `json:"role"`
	JoinedAt   time.Time  `json:"joinedAt"`
	LeftAt     *time.Time `json:"leftAt,omitempty"`
	IsActive   bool       `json:"isActive"`
}

// Members is stored as a jsonb column.
type Members []TeamMember

func (m Members) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Members) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type for Members: %T", value)
	}
}

// Permissions governs what the team's co-leads may approve.
type Permissions struct {
	CanApproveLeaves     bool    `json:"canApproveLeaves"`
	CanViewTeamCalendar  bool    `json:"canViewTeamCalendar"`
	CanManageMembers     bool    `json:"canManageMembers"`
	MaxLeaveApprovalDays float64 `json:"maxLeaveApprovalDays"`
}

func (p Permissions) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Permissions) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*p = Permissions{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported type for Permissions: %T", value)
	}
}

func DefaultPermissions() Permissions {
	return Permissions{
		CanApproveLeaves:     true,
		CanViewTeamCalendar:  true,
		CanManageMembers:     false,
		MaxLeaveApprovalDays: 10,
	}
}

type Team struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(500)"`
	Department  string `gorm:"type:varchar(100);not null;index:idx_teams_department"`

	ManagerID uuid.UUID `gorm:"type:uuid;not null;index:idx_teams_manager"`

	Members     Members     `gorm:"type:jsonb;not null;default:'[]'"`
	Permissions Permissions `gorm:"type:jsonb;not null;default:'{}'"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_teams_deleted_at"`
}

// IsActiveMember reports whether employeeID is an active member.
func (t *Team) IsActiveMember(employeeID string) bool {
	for _, m := range t.Members {
		if m.EmployeeID == employeeID && m.IsActive {
			return true
		}
	}
	return false
}

// CanApproveLeave applies the approval permission rules. The manager may
// always approve; an active co-lead may approve up to the team's day cap.
func (t *Team) CanApproveLeave(employeeID string, requestedDays float64) bool {
	if t.ManagerID.String() == employeeID {
		return true
	}
	if !t.IsActiveMember(employeeID) {
		return false
	}
	if !t.Permissions.CanApproveLeaves {
		return false
	}
	for _, m := range t.Members {
		if m.EmployeeID == employeeID && m.Role == MemberRoleCoLead {
			return requestedDays <= t.Permissions.MaxLeaveApprovalDays
		}
	}
	return false
}

// AvailableApprovers lists the manager followed by active co-leads.
func (t *Team) AvailableApprovers() []string {
	approvers := []string{t.ManagerID.String()}
	for _, m := range t.Members {
		if m.IsActive && m.Role == MemberRoleCoLead {
			approvers = append(approvers, m.EmployeeID)
		}
	}
	return approvers
}
