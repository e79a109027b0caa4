package events

import "time"

const QuestionLifecycleTopic = "hr.question.lifecycle.v1"

const (
	QuestionSubmitted = "question_submitted"
	QuestionAnswered  = "question_answered"
	QuestionClosed    = "question_closed"
	QuestionReplied   = "question_replied"
)

type QuestionStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	QuestionID string    `json:"question_id"`
	AuthorID   string    `json:"author_id"`
	AssignedTo string    `json:"assigned_to,omitempty"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
