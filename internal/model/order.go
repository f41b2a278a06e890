package model

import "time"

// OrderItem is one requested line: product by natural name plus quantity.
type OrderItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// Order is a beneficiary's request for goods. Walk-in (urgent) orders have no
// requester id and carry the beneficiary's name instead; they are created
// already ACCEPTED under an idempotency key so client retries cannot
// double-deduct stock.
type Order struct {
	BaseModel
	Items           []OrderItem `gorm:"type:jsonb;serializer:json" json:"items"`
	Status          Status      `gorm:"type:varchar(20);not null;index" json:"status"`
	RequesterID     string      `gorm:"type:varchar(64);index" json:"requester_id,omitempty"`
	BeneficiaryName string      `gorm:"type:varchar(255)" json:"beneficiary_name,omitempty"`
	SubmittedAt     time.Time   `json:"submitted_at"`
	FulfillmentDate time.Time   `json:"fulfillment_date"`
	EvaluatorID     string      `gorm:"type:varchar(64)" json:"evaluator_id,omitempty"`
	EvaluatedAt     *time.Time  `json:"evaluated_at,omitempty"`
	Reason          string      `gorm:"type:text" json:"reason,omitempty"`
	Urgent          bool        `gorm:"default:false" json:"urgent"`
	IdempotencyKey  *string     `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	Version         int64       `gorm:"not null;default:0" json:"-"`
}
