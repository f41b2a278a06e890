package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
)

// Atomic runs a function inside a database transaction with bounded retries.
// Version conflicts from the repositories and Postgres serialization or
// deadlock failures are retried with jittered backoff; anything else is
// returned as-is. This is the single consistency choke point: every mutating
// operation in the system goes through Run.
type Atomic struct {
	db          *gorm.DB
	maxAttempts int
}

func NewAtomic(db *gorm.DB, maxAttempts int) *Atomic {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	return &Atomic{db: db, maxAttempts: maxAttempts}
}

func (a *Atomic) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	backoff := 20 * time.Millisecond
	var err error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		err = a.db.WithContext(ctx).Transaction(fn)
		if err == nil || !retryable(err) {
			return err
		}
		if attempt == a.maxAttempts {
			break
		}
		time.Sleep(backoff + time.Duration(rand.Int63n(int64(backoff))))
		backoff *= 2
	}
	return fmt.Errorf("%w: %d attempts exhausted: %v", apperr.ErrConflict, a.maxAttempts, err)
}

// UniqueViolation reports whether err is a Postgres duplicate-key failure on
// the named constraint.
func UniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func retryable(err error) bool {
	if errors.Is(err, apperr.ErrConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization failure, deadlock detected
			return true
		case "23505":
			// Two concurrent first-donations for the same product name race to
			// insert; the loser retries and takes the merge path instead.
			return pgErr.ConstraintName == "idx_products_name_key"
		}
	}
	return false
}
