package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-store-orders/pkg/validator"

	"gorm.io/gorm"
)

const defaultTimeout = 5 * time.Second

// txRunner runs work inside one database transaction bounded by a timeout.
type txRunner struct {
	db      *gorm.DB
	timeout time.Duration
}

func newTxRunner(db *gorm.DB, timeout time.Duration) txRunner {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return txRunner{db: db, timeout: timeout}
}

func (r txRunner) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(fn)
	if err == nil || isKnown(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return internal(fmt.Errorf("transaction timed out after %s: %w", r.timeout, err))
	}
	return internal(err)
}

// read runs fn against a timeout-bound session without opening a transaction.
func (r txRunner) read(ctx context.Context, fn func(db *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := fn(r.db.WithContext(ctx))
	if err == nil || isKnown(err) {
		return err
	}
	return internal(err)
}

// guardedWrite is the shape shared by every administrative mutation:
// validate, check a precondition, write, append the audit row, commit, then notify.
type guardedWrite struct {
	Input interface{}
	Check func(tx *gorm.DB) error
	Write func(tx *gorm.DB) error
	Log   func(tx *gorm.DB) error
	After func() // runs only once the transaction has committed
}

func (r txRunner) guarded(ctx context.Context, w guardedWrite) error {
	if w.Input != nil {
		if err := validate(w.Input); err != nil {
			return err
		}
	}

	err := r.run(ctx, func(tx *gorm.DB) error {
		for _, step := range []func(*gorm.DB) error{w.Check, w.Write, w.Log} {
			if step == nil {
				continue
			}
			if err := step(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if w.After != nil {
		w.After()
	}
	return nil
}

func validate(input interface{}) error {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		firstErr := errs[0]
		return invalidInput("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	return nil
}
