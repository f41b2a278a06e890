package model

import "time"

// Notification is a fire-and-forget record consumed by a separate delivery
// pipeline. The core only creates rows; it never waits on dispatch.
type Notification struct {
	BaseModel
	UserID  string     `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Title   string     `gorm:"type:varchar(255);not null" json:"title"`
	Message string     `gorm:"type:text" json:"message"`
	ReadAt  *time.Time `json:"read_at,omitempty"`
}
