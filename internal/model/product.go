package model

import (
	"strings"
	"time"
)

// Batch is a dated quantity of a product, the smallest unit of stock
// tracking. A nil expiry means the batch never expires; for deduction it is
// treated as soonest-expiring so it gets consumed first.
type Batch struct {
	Quantity int        `json:"quantity"`
	Expiry   *time.Time `json:"expiry,omitempty"`
}

// Product owns its batch list. NameKey is the normalized natural key; the
// unique index on it is what stops two concurrent donations from creating
// duplicate products with the same name.
type Product struct {
	BaseModel
	Name     string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	NameKey  string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	Category string  `gorm:"type:varchar(100)" json:"category"`
	Image    string  `gorm:"type:text" json:"image,omitempty"`
	Batches  []Batch `gorm:"type:jsonb;serializer:json" json:"batches"`
	Version  int64   `gorm:"not null;default:0" json:"-"`
}

// NormalizeName trims, lowercases and collapses inner whitespace so that
// " Arroz  Branco " and "arroz branco" resolve to the same product.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
