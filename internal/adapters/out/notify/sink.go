// Package notify persists user notifications in Postgres.
package notify

import (
	"context"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationSink implements ports.NotificationSink by inserting
// notification rows.
type GormNotificationSink struct {
	db *gorm.DB
}

// NewGormNotificationSink creates a new GORM notification sink.
func NewGormNotificationSink(db *gorm.DB) *GormNotificationSink {
	return &GormNotificationSink{db: db}
}

// Notify stores a notification for the given user.
func (s *GormNotificationSink) Notify(ctx context.Context, userID kernel.UUID, kind ports.NotificationKind, message string, parcelID *kernel.UUID) error {
	dto := NotificationDTO{
		ID:        uuid.New(),
		UserID:    userID.Bytes(),
		Kind:      string(kind),
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if parcelID != nil {
		id := parcelID.Bytes()
		dto.ParcelID = &id
	}

	return s.db.WithContext(ctx).Create(&dto).Error
}
