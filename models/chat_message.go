package models

import "time"

// ChatMessage records one assistant exchange for the chat history view.
type ChatMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	UserMessage string    `gorm:"type:text" json:"user_message"`
	AIResponse  string    `gorm:"type:text" json:"ai_response"`
	CreatedAt   time.Time `json:"created_at"`
}
