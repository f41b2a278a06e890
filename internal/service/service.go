// Package service holds the workflow orchestration: every mutating operation
// validates its input, runs inside one retried transaction, and publishes a
// typed event after commit. Listings and counters read outside transactions
// and are eventually consistent; transitions never trust them.
package service

import (
	"fmt"
	"time"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/pkg/validator"
)

// BatchInput is one incoming dated quantity, used by donations, manual stock
// entries and batch edits.
type BatchInput struct {
	Quantity int        `json:"quantity" validate:"required,gt=0"`
	Expiry   *time.Time `json:"expiry,omitempty"`
}

// OrderItemInput is one requested line in an order or urgent cart.
type OrderItemInput struct {
	ProductName string `json:"product_name" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

func validateStruct(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		first := errs[0]
		return apperr.Validation(first.FailedField, fmt.Sprintf("failed on tag '%s'", first.Tag))
	}
	return nil
}
