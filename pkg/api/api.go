// Package api defines the core data types and contracts for budgetmail.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RawEmail is a bank notification email as delivered by the mail-fetching
// collaborator. Field names in the json tags match the webhook payload shape
// (date, subject, from, body).
type RawEmail struct {
	// ID identifies the delivery (spool filename, message ID, ...) and is
	// echoed back on the acknowledgment channel after the email has been
	// fully processed.
	ID string `json:"-"`

	Date    time.Time `json:"date"`
	Subject string    `json:"subject"`
	From    string    `json:"from"`
	Text    string    `json:"body"`
}

// Polarity says whether a matched amount is money leaving or entering the
// account.
type Polarity string

const (
	PolarityDebit  Polarity = "debit"
	PolarityCredit Polarity = "credit"
)

// Category is one of the fixed set of spending categories.
type Category string

const (
	CategoryFoodDining    Category = "Food & Dining"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryUtilities     Category = "Utilities"
	CategoryHealthcare    Category = "Healthcare"
	CategoryUncategorized Category = "Uncategorized"
)

// Source records how a transaction entered the system.
type Source string

const (
	SourceManual Source = "manual"
	SourceEmail  Source = "email"
)

// UnknownMerchant is the sentinel merchant name used when no merchant
// pattern matched.
const UnknownMerchant = "Unknown"

// Transaction is a stored financial transaction. The extractor only ever
// proposes new Transactions; edits and deletes happen elsewhere.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"` // calendar day, midnight UTC
	Amount      decimal.Decimal `json:"amount"`
	Merchant    string          `json:"merchant"` // normalized form
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Source      Source          `json:"source"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	// EmailID carries the originating RawEmail delivery ID through the
	// pipeline so the reader can be acknowledged after a successful insert.
	EmailID string `json:"-"`
}

// ErrDuplicateTransaction is returned by Store.Insert when the store's own
// uniqueness guarantee rejects the row. Callers treat it as a duplicate
// outcome, not a failure.
var ErrDuplicateTransaction = errors.New("duplicate transaction")

// Reader delivers raw notification emails to the provided channel.
// Implementations should close the channel when done or on error.
// The ackChan receives IDs of emails whose processing has completed.
type Reader interface {
	Read(ctx context.Context, out chan<- *RawEmail, ackChan <-chan string) error
}

// Store is the persistence seam used by the ingestion boundary.
type Store interface {
	// FindDuplicate returns a previously stored transaction matching
	// (date, amount, merchant) with the given source, or nil if none exists.
	FindDuplicate(ctx context.Context, date time.Time, amount decimal.Decimal, merchant string, source Source) (*Transaction, error)

	// Insert stores a new transaction. It returns ErrDuplicateTransaction
	// if an equivalent row already exists.
	Insert(ctx context.Context, txn *Transaction) error
}
