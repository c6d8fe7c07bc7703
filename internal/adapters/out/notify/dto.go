package notify

import (
	"time"

	"github.com/google/uuid"
)

// NotificationDTO is the database model for a stored notification.
type NotificationDTO struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID  `gorm:"type:uuid;index"`
	ParcelID  *uuid.UUID `gorm:"type:uuid;index"`
	Kind      string
	Message   string
	Read      bool `gorm:"index"`
	CreatedAt time.Time
}

// TableName returns the database table name.
func (NotificationDTO) TableName() string {
	return "notifications"
}
