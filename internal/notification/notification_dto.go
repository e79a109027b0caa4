package notification

type NotificationResponse struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`

	EventType string `json:"event_type"`
	Title     string `json:"title"`
	Body      string `json:"body"`

	ReferenceType string `json:"reference_type"`
	ReferenceID   string `json:"reference_id"`

	Read      bool    `json:"read"`
	ReadAt    *string `json:"read_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
