package question

type CreateQuestionRequest struct {
	Category    string `json:"category" binding:"required"`
	SubCategory string `json:"sub_category" binding:"required"`

	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=2000"`

	Priority string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`

	// Someone the question concerns other than the author.
	BeneficiaryID string `json:"beneficiary_id" binding:"omitempty,uuid"`

	// When true the question stays a private draft until submitted.
	Draft bool `json:"draft"`

	NotifyBeneficiary  bool  `json:"notify_beneficiary"`
	EmailNotifications *bool `json:"email_notifications"`
}

// UpdateQuestionRequest mutates a question. Content fields are author-only
// and draft-only; priority may also be changed by staff at any point.
type UpdateQuestionRequest struct {
	Category    *string `json:"category"`
	SubCategory *string `json:"sub_category"`

	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`

	Priority           *string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	EmailNotifications *bool   `json:"email_notifications"`
}

type AddMessageRequest struct {
	Message    string `json:"message" binding:"required,min=3,max=1000"`
	IsInternal bool   `json:"is_internal"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft submitted in-review answered closed cancelled"`
	Reason string `json:"reason" binding:"max=300"`
}

type AssignRequest struct {
	AssignedTo string `json:"assigned_to" binding:"required,uuid"`
}

type QuestionStatsResponse struct {
	Total      int64            `json:"total"`
	Overdue    int64            `json:"overdue"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByCategory map[string]int64 `json:"by_category"`
}

type QuestionResponse struct {
	ID            string  `json:"id"`
	AuthorID      string  `json:"author_id"`
	BeneficiaryID *string `json:"beneficiary_id,omitempty"`

	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`

	Title       string `json:"title"`
	Description string `json:"description"`

	Status   string `json:"status"`
	Priority string `json:"priority"`

	NotifyBeneficiary  bool `json:"notify_beneficiary"`
	EmailNotifications bool `json:"email_notifications"`

	Attachments   Attachments   `json:"attachments"`
	Conversations Conversations `json:"conversations"`
	StatusHistory StatusHistory `json:"status_history"`

	AssignedTo *string `json:"assigned_to,omitempty"`

	ResponseDeadline *string `json:"response_deadline,omitempty"`
	AnsweredAt       *string `json:"answered_at,omitempty"`
	ClosedAt         *string `json:"closed_at,omitempty"`

	Overdue   bool   `json:"overdue"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
