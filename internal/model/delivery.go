package model

import (
	"time"

	"github.com/google/uuid"
)

// Delivery tracks the handover of an approved order. It is created PENDENTE
// when an order is approved (or directly ENTREGUE for urgent walk-ins) and
// transitions at most once.
type Delivery struct {
	BaseModel
	OrderID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	Status      DeliveryStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	RequesterID string         `gorm:"type:varchar(64)" json:"requester_id,omitempty"`
	SurveyDate  time.Time      `json:"survey_date"` // scheduled fulfillment date
	Delivered   bool           `gorm:"default:false" json:"delivered"`
	EvaluatorID string         `gorm:"type:varchar(64)" json:"evaluator_id,omitempty"`
	EvaluatedAt *time.Time     `json:"evaluated_at,omitempty"`
	Reason      string         `gorm:"type:text" json:"reason,omitempty"`
	Version     int64          `gorm:"not null;default:0" json:"-"`
}
