package dashboard

import "hrportal/internal/ledger"

type DashboardResponse struct {
	Balance ledger.Snapshot `json:"balance"`

	PendingLeaves    int `json:"pending_leaves"`
	ApprovedLeaves   int `json:"approved_leaves"`
	PendingApprovals int `json:"pending_approvals"`

	BasketItems int     `json:"basket_items"`
	BasketDays  float64 `json:"basket_days"`

	OpenQuestions       int   `json:"open_questions"`
	UnreadNotifications int64 `json:"unread_notifications"`

	GeneratedAt string `json:"generated_at"`
}
