package models

import "time"

// Notification is an in-app message delivered to a user. Email delivery is
// best-effort on top of the stored row.
type Notification struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string     `json:"user_id" gorm:"not null;index;type:uuid"`
	Event     string     `json:"event" gorm:"not null;type:varchar(50)"`
	Title     string     `json:"title" gorm:"not null"`
	Message   string     `json:"message" gorm:"type:text"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}
