package basket

import "hrportal/internal/leave"

type AddItemRequest struct {
	MainCategory  string                   `json:"main_category" binding:"required"`
	SubCategory   string                   `json:"sub_category" binding:"required"`
	SpecificType  string                   `json:"specific_type"`
	Dates         []leave.DateEntryRequest `json:"dates" binding:"required,min=1,dive"`
	Justification string                   `json:"justification" binding:"max=500"`
}

// EditItemRequest carries only the fields being changed.
type EditItemRequest struct {
	MainCategory  *string                  `json:"main_category"`
	SubCategory   *string                  `json:"sub_category"`
	SpecificType  *string                  `json:"specific_type"`
	Dates         []leave.DateEntryRequest `json:"dates" binding:"omitempty,min=1,dive"`
	Justification *string                  `json:"justification" binding:"omitempty,max=500"`
}

type UpdateJustificationRequest struct {
	Justification string `json:"justification" binding:"required"`
}

type BasketResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Status      string  `json:"status"`
	Items       Items   `json:"items"`
	Summary     Summary `json:"summary"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
	ClearedAt   *string `json:"cleared_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type SubmitResponse struct {
	Basket   BasketResponse        `json:"basket"`
	Requests []leave.LeaveResponse `json:"requests"`
}
