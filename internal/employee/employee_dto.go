package employee

type CreateEmployeeRequest struct {
	FirstName  string  `json:"first_name" binding:"required,max=100"`
	LastName   string  `json:"last_name" binding:"required,max=100"`
	Email      string  `json:"email" binding:"required,email"`
	Role       string  `json:"role" binding:"required,oneof=employee manager hr admin"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	ManagerID  *string `json:"manager_id"`
	TeamID     *string `json:"team_id"`
}

type UpdateEmployeeRequest struct {
	FirstName  string  `json:"first_name" binding:"required,max=100"`
	LastName   string  `json:"last_name" binding:"required,max=100"`
	Email      string  `json:"email" binding:"required,email"`
	Role       string  `json:"role" binding:"required,oneof=employee manager hr admin"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	ManagerID  *string `json:"manager_id"`
	TeamID     *string `json:"team_id"`
	IsActive   *bool   `json:"is_active"`
}

type SetBalanceRequest struct {
	TotalLeaves float64 `json:"total_leaves" binding:"min=0"`
	UsedLeaves  float64 `json:"used_leaves" binding:"min=0"`
	RTTBalance  float64 `json:"rtt_balance" binding:"min=0"`
	CPPBalance  float64 `json:"cpp_balance" binding:"min=0"`
}

type BalanceResponse struct {
	TotalLeaves     float64 `json:"totalLeaves"`
	UsedLeaves      float64 `json:"usedLeaves"`
	AvailableLeaves float64 `json:"availableLeaves"`
	RTTBalance      float64 `json:"RTTBalance"`
	CPPBalance      float64 `json:"CPPBalance"`
}

type EmployeeResponse struct {
	ID         string          `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Email      string          `json:"email"`
	Role       string          `json:"role"`
	Department string          `json:"department,omitempty"`
	Position   string          `json:"position,omitempty"`
	ManagerID  *string         `json:"manager_id,omitempty"`
	TeamID     *string         `json:"team_id,omitempty"`
	IsActive   bool            `json:"is_active"`
	Balance    BalanceResponse `json:"leave_balance"`
}
