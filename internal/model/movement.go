package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementAdjust MovementType = "ADJUST"
)

// StockMovement is the audit record written alongside every stock mutation:
// donation intake (IN), order approval and urgent deliveries (OUT), manual
// batch edits (ADJUST).
type StockMovement struct {
	BaseModel
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string       `gorm:"type:varchar(255);not null" json:"product_name"`
	Type        MovementType `gorm:"type:varchar(10);not null" json:"type"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	Source      string       `gorm:"type:varchar(20)" json:"source"` // donation, order, urgent, manual
	SourceID    string       `gorm:"type:varchar(64)" json:"source_id,omitempty"`
	ActorID     string       `gorm:"type:varchar(64)" json:"actor_id"`
}
