package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an in-app inbox entry materialized by the lifecycle
// consumer from kafka events. Email delivery happens alongside and never
// blocks row creation.
type Notification struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	RecipientID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient"`

	EventType string `gorm:"type:varchar(50);not null"`
	Title     string `gorm:"type:varchar(200);not null"`
	Body      string `gorm:"type:text;not null"`

	ReferenceType string `gorm:"type:varchar(50);not null"`
	ReferenceID   string `gorm:"type:varchar(64);not null"`

	ReadAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
