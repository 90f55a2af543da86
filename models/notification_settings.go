package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationSettings stores per-user notification preferences. The unique
// index on UserID keeps the row one-to-one with its user even under
// concurrent first access.
type NotificationSettings struct {
	ID                    uint      `gorm:"primaryKey" json:"-"`
	UserID                uint      `gorm:"not null;uniqueIndex" json:"-"`
	EmailNotifications    bool      `json:"email_notifications"`
	EmailNotificationTime string    `gorm:"size:5" json:"email_notification_time"` // HH:MM, 24h
	PushNotifications     bool      `json:"push_notifications"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (s *NotificationSettings) BeforeCreate(tx *gorm.DB) error {
	if s.EmailNotificationTime == "" {
		s.EmailNotificationTime = "09:00"
	}
	s.UpdatedAt = time.Now()
	return nil
}
