// Package ingest implements the deduplicating ingestion boundary in front of
// the transaction store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/budgetmail/budgetmail/pkg/api"
)

// Status is the outcome of ingesting one candidate.
type Status string

const (
	// StatusInserted means the candidate was stored as a new transaction.
	StatusInserted Status = "inserted"
	// StatusDuplicate means an equivalent transaction was already stored;
	// nothing was inserted. This is a success, not a failure.
	StatusDuplicate Status = "duplicate"
)

// Result reports the outcome of ingesting one candidate. On duplicate the
// Transaction is the previously stored row, so callers can tell the two
// outcomes apart only by inspecting Status.
type Result struct {
	Status      Status
	Transaction *api.Transaction
}

// Ingestor records candidate transactions, suppressing duplicates of
// previously ingested notifications. Banks re-deliver alerts; two
// notifications with the same (date, amount, merchant) and email source are
// treated as one real-world event.
type Ingestor struct {
	store  api.Store
	logger *slog.Logger
}

// New creates an Ingestor over the given store.
func New(store api.Store, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{store: store, logger: logger}
}

// Ingest records a candidate unless an equivalent row already exists.
// Duplicates report success carrying the stored row; only store failures
// return an error. The Ingestor performs no retries; retry policy belongs to
// the caller.
func (i *Ingestor) Ingest(ctx context.Context, candidate *api.Transaction) (Result, error) {
	existing, err := i.store.FindDuplicate(ctx, candidate.Date, candidate.Amount, candidate.Merchant, candidate.Source)
	if err != nil {
		return Result{}, fmt.Errorf("checking for duplicate: %w", err)
	}
	if existing != nil {
		i.logger.Info("duplicate notification skipped",
			"transaction_id", existing.ID,
			"merchant", candidate.Merchant,
			"amount", candidate.Amount,
			"date", candidate.Date.Format(time.DateOnly),
		)
		return Result{Status: StatusDuplicate, Transaction: existing}, nil
	}

	if err := i.store.Insert(ctx, candidate); err != nil {
		if errors.Is(err, api.ErrDuplicateTransaction) {
			// Lost the race against a concurrent identical delivery; the
			// store's uniqueness backstop caught it. Report the stored row.
			return i.duplicateOf(ctx, candidate)
		}
		return Result{}, fmt.Errorf("inserting transaction: %w", err)
	}

	i.logger.Info("transaction recorded",
		"transaction_id", candidate.ID,
		"merchant", candidate.Merchant,
		"amount", candidate.Amount,
		"category", candidate.Category,
	)
	return Result{Status: StatusInserted, Transaction: candidate}, nil
}

// duplicateOf resolves the stored row a rejected candidate collided with.
func (i *Ingestor) duplicateOf(ctx context.Context, candidate *api.Transaction) (Result, error) {
	existing, err := i.store.FindDuplicate(ctx, candidate.Date, candidate.Amount, candidate.Merchant, candidate.Source)
	if err != nil {
		return Result{}, fmt.Errorf("resolving duplicate: %w", err)
	}
	if existing == nil {
		// The winning row vanished between insert and lookup; surface the
		// candidate so the caller still sees a duplicate outcome.
		existing = candidate
	}
	return Result{Status: StatusDuplicate, Transaction: existing}, nil
}
