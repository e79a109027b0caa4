package team

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Department  string `json:"department" binding:"required,max=100"`
	ManagerID   string `json:"manager_id" binding:"required,uuid"`
}

type AddMemberRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Role       string `json:"role" binding:"omitempty,oneof=member co-lead"`
}

type UpdatePermissionsRequest struct {
	CanApproveLeaves     *bool    `json:"can_approve_leaves"`
	CanViewTeamCalendar  *bool    `json:"can_view_team_calendar"`
	CanManageMembers     *bool    `json:"can_manage_members"`
	MaxLeaveApprovalDays *float64 `json:"max_leave_approval_days" binding:"omitempty,min=0"`
}

type TeamResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Department  string       `json:"department"`
	ManagerID   string       `json:"manager_id"`
	Members     []TeamMember `json:"members"`
	Permissions Permissions  `json:"permissions"`
	IsActive    bool         `json:"is_active"`
}
