package models

import "time"

// Alert mirrors a HEALTH_ALERT/SAFETY_ALERT recommendation for the realtime
// stream.
type Alert struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	Type      string    `gorm:"size:20"` // "health" | "safety"
	Message   string    `gorm:"type:text"`
	CreatedAt time.Time
}
