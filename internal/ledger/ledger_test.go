package ledger

import (
	"errors"
	"testing"
	"time"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestMergeCombinesSameExpiryDay(t *testing.T) {
	batches := Merge(nil, []model.Batch{{Quantity: 5, Expiry: date(2025, 6, 1)}})
	if len(batches) != 1 || batches[0].Quantity != 5 {
		t.Fatalf("expected single batch of 5, got %+v", batches)
	}

	// Same calendar day, different clock time: must combine, not duplicate.
	afternoon := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	batches = Merge(batches, []model.Batch{{Quantity: 3, Expiry: &afternoon}})
	if len(batches) != 1 {
		t.Fatalf("expected batches to combine, got %d batches", len(batches))
	}
	if batches[0].Quantity != 8 {
		t.Fatalf("expected quantity 8, got %d", batches[0].Quantity)
	}
}

func TestMergeAppendsDifferentDays(t *testing.T) {
	batches := Merge(nil, []model.Batch{{Quantity: 2, Expiry: date(2025, 1, 1)}})
	batches = Merge(batches, []model.Batch{{Quantity: 5, Expiry: date(2025, 2, 1)}})
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	if Total(batches) != 7 {
		t.Fatalf("expected total 7, got %d", Total(batches))
	}
}

func TestMergeUndatedBatchesCombine(t *testing.T) {
	batches := Merge(nil, []model.Batch{{Quantity: 4}})
	batches = Merge(batches, []model.Batch{{Quantity: 6}})
	if len(batches) != 1 || batches[0].Quantity != 10 {
		t.Fatalf("undated batches should combine into one, got %+v", batches)
	}
}

func TestMergeTotalAlwaysIncreasesBySum(t *testing.T) {
	batches := []model.Batch{{Quantity: 2, Expiry: date(2025, 1, 1)}}
	incoming := []model.Batch{
		{Quantity: 3, Expiry: date(2025, 1, 1)},
		{Quantity: 1, Expiry: date(2025, 3, 1)},
		{Quantity: 7},
		{Quantity: 0, Expiry: date(2025, 4, 1)},
	}
	before := Total(batches)
	merged := Merge(batches, incoming)
	if Total(merged) != before+11 {
		t.Fatalf("expected total %d, got %d", before+11, Total(merged))
	}
}

func TestDeductConsumesInExpiryOrder(t *testing.T) {
	batches := []model.Batch{
		{Quantity: 5, Expiry: date(2025, 2, 1)},
		{Quantity: 2, Expiry: date(2025, 1, 1)},
	}
	result, err := Deduct(batches, 3)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected oldest batch fully consumed, got %+v", result)
	}
	if result[0].Quantity != 4 || !result[0].Expiry.Equal(*date(2025, 2, 1)) {
		t.Fatalf("expected 4 left in the 2025-02-01 batch, got %+v", result[0])
	}
}

func TestDeductUndatedConsumedFirst(t *testing.T) {
	batches := []model.Batch{
		{Quantity: 3, Expiry: date(2025, 5, 1)},
		{Quantity: 2},
	}
	result, err := Deduct(batches, 2)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if len(result) != 1 || result[0].Expiry == nil || result[0].Quantity != 3 {
		t.Fatalf("expected the undated batch consumed first, got %+v", result)
	}
}

func TestDeductExactTotalEmptiesLedger(t *testing.T) {
	batches := []model.Batch{
		{Quantity: 2, Expiry: date(2025, 1, 1)},
		{Quantity: 5, Expiry: date(2025, 2, 1)},
	}
	result, err := Deduct(batches, 7)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected all batches pruned, got %+v", result)
	}
}

func TestDeductOverTotalFailsWithoutMutation(t *testing.T) {
	batches := []model.Batch{{Quantity: 2, Expiry: date(2025, 1, 1)}}
	_, err := Deduct(batches, 3)
	var insufficient *apperr.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Requested != 3 || insufficient.Available != 2 {
		t.Fatalf("unexpected error detail: %+v", insufficient)
	}
	if len(batches) != 1 || batches[0].Quantity != 2 {
		t.Fatalf("input batches must be untouched, got %+v", batches)
	}
}

func TestDeductNeverLeavesNegativeBatches(t *testing.T) {
	batches := []model.Batch{
		{Quantity: 1, Expiry: date(2025, 1, 1)},
		{Quantity: 1, Expiry: date(2025, 1, 2)},
		{Quantity: 1, Expiry: date(2025, 1, 3)},
	}
	result, err := Deduct(batches, 2)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	for _, b := range result {
		if b.Quantity < 0 {
			t.Fatalf("negative batch quantity: %+v", b)
		}
	}
	if Total(result) != 1 {
		t.Fatalf("expected total 1 after deduction, got %d", Total(result))
	}
}

func TestValidStockIgnoresExpired(t *testing.T) {
	asOf := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	batches := []model.Batch{
		{Quantity: 4, Expiry: date(2025, 1, 1)},  // expired
		{Quantity: 3, Expiry: date(2025, 3, 15)}, // expires today, still valid
		{Quantity: 2, Expiry: date(2025, 6, 1)},
		{Quantity: 1}, // never expires
	}
	if got := Valid(batches, asOf); got != 6 {
		t.Fatalf("expected valid stock 6, got %d", got)
	}
	if got := Total(batches); got != 10 {
		t.Fatalf("expected total stock 10, got %d", got)
	}
}
