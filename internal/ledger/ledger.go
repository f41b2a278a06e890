// Package ledger holds the batch allocation math: merging donated batches by
// expiry day and consuming stock in expiry order. Everything here is pure
// slice arithmetic; persistence and locking live in the service layer.
package ledger

import (
	"sort"
	"time"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
)

// Total is the sum of all batch quantities, expired or not.
func Total(batches []model.Batch) int {
	total := 0
	for _, b := range batches {
		total += b.Quantity
	}
	return total
}

// Valid sums the quantities whose expiry is on or after asOf. Batches without
// an expiry never expire for display purposes. Used for listings and for
// gating what is offered to requesters, never for deduction eligibility.
func Valid(batches []model.Batch, asOf time.Time) int {
	total := 0
	day := dayOf(asOf)
	for _, b := range batches {
		if b.Expiry == nil || !dayOf(*b.Expiry).Before(day) {
			total += b.Quantity
		}
	}
	return total
}

// Merge folds incoming batches into existing ones. A batch whose expiry falls
// on the same calendar day as an existing batch adds to it; otherwise it is
// appended. Zero-quantity batches are dropped on the way in.
func Merge(batches []model.Batch, incoming []model.Batch) []model.Batch {
	merged := make([]model.Batch, len(batches))
	copy(merged, batches)

	for _, in := range incoming {
		if in.Quantity <= 0 {
			continue
		}
		combined := false
		for i := range merged {
			if sameDay(merged[i].Expiry, in.Expiry) {
				merged[i].Quantity += in.Quantity
				combined = true
				break
			}
		}
		if !combined {
			merged = append(merged, model.Batch{Quantity: in.Quantity, Expiry: in.Expiry})
		}
	}
	return merged
}

// Deduct consumes quantity from the batches in ascending expiry order, the
// undated ones first. If the total available is less than requested it fails
// with InsufficientStockError and the input is untouched; there is no partial
// deduction and no clamping. Fully consumed batches are pruned.
func Deduct(batches []model.Batch, quantity int) ([]model.Batch, error) {
	available := Total(batches)
	if quantity > available {
		return nil, &apperr.InsufficientStockError{Requested: quantity, Available: available}
	}

	ordered := make([]model.Batch, len(batches))
	copy(ordered, batches)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Expiry, ordered[j].Expiry
		if a == nil {
			return b != nil
		}
		if b == nil {
			return false
		}
		return a.Before(*b)
	})

	remaining := quantity
	result := make([]model.Batch, 0, len(ordered))
	for _, batch := range ordered {
		if remaining == 0 {
			result = append(result, batch)
			continue
		}
		take := batch.Quantity
		if take > remaining {
			take = remaining
		}
		batch.Quantity -= take
		remaining -= take
		if batch.Quantity > 0 {
			result = append(result, batch)
		}
	}
	return result, nil
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return dayOf(*a).Equal(dayOf(*b))
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
