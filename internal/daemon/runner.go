// Package daemon provides the core daemon runner for budgetmail.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go"

	"github.com/budgetmail/budgetmail/pkg/api"
	"github.com/budgetmail/budgetmail/pkg/extract"
	"github.com/budgetmail/budgetmail/pkg/ingest"
)

// Runner wires a reader to the extraction pipeline and ingestion boundary.
type Runner struct {
	reader   api.Reader
	ingestor *ingest.Ingestor
	logger   *slog.Logger
}

// New creates a new daemon runner.
func New(reader api.Reader, ingestor *ingest.Ingestor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		reader:   reader,
		ingestor: ingestor,
		logger:   logger,
	}
}

// Run starts the ingestion daemon. It blocks until the context is canceled.
//
// Emails are acknowledged back to the reader once they are safely accounted
// for: stored, recognized as duplicates, or found to contain no transaction.
// An email whose ingestion fails is not acknowledged, so the reader delivers
// it again on a later run and deduplication absorbs the replay.
func (r *Runner) Run(ctx context.Context) error {
	emails := make(chan *api.RawEmail, 100)
	ackChan := make(chan string, 100)

	readerDone := make(chan error, 1)
	go func() {
		readerDone <- r.reader.Read(ctx, emails, ackChan)
	}()

	r.logger.Info("daemon started")

	for email := range emails {
		r.process(ctx, email, ackChan)
	}

	if err := <-readerDone; err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("reader error", "error", err)
	}

	r.logger.Info("daemon stopped")
	return nil
}

func (r *Runner) process(ctx context.Context, email *api.RawEmail, ackChan chan<- string) {
	logger := r.logger.With("email_id", email.ID, "subject", email.Subject)

	txn := extract.Assemble(email)
	if txn == nil {
		logger.Debug("no transaction found in email")
		r.ack(ctx, ackChan, email.ID)
		return
	}

	var result ingest.Result
	err := retry.Do(
		func() error {
			var ingestErr error
			result, ingestErr = r.ingestor.Ingest(ctx, txn)
			return ingestErr
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled)
		}),
	)
	if err != nil {
		// No ack. The reader redelivers the email and dedup handles the
		// partial-failure replay.
		logger.Error("failed to ingest transaction", "error", err)
		return
	}

	switch result.Status {
	case ingest.StatusInserted:
		logger.Info("transaction stored",
			"transaction_id", result.Transaction.ID,
			"amount", result.Transaction.Amount,
			"merchant", result.Transaction.Merchant,
			"category", result.Transaction.Category,
		)
	case ingest.StatusDuplicate:
		logger.Info("duplicate transaction skipped",
			"transaction_id", result.Transaction.ID,
		)
	}

	r.ack(ctx, ackChan, email.ID)
}

func (r *Runner) ack(ctx context.Context, ackChan chan<- string, emailID string) {
	select {
	case <-ctx.Done():
	case ackChan <- emailID:
	}
}
