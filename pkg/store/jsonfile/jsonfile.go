// Package jsonfile implements a file-backed transaction store. It keeps the
// full transaction list in memory, persists it as a JSON array, and serves
// duplicate lookups from an index keyed on (date, amount, merchant, source).
// Suitable for single-process use; the Postgres store is the multi-writer
// option.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetmail/budgetmail/pkg/api"
)

// Store persists transactions to a single JSON file.
type Store struct {
	path   string
	mu     sync.Mutex
	txns   []*api.Transaction
	index  map[string]*api.Transaction
	logger *slog.Logger
}

// New creates a Store backed by the given file, loading any existing
// transactions from it.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		path:   path,
		index:  make(map[string]*api.Transaction),
		logger: logger,
	}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	logger.Info("json store initialized", "file", path, "existing_count", len(s.txns))
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.txns); err != nil {
		return err
	}
	for _, txn := range s.txns {
		s.index[dedupKey(txn.Date, txn.Amount, txn.Merchant, txn.Source)] = txn
	}
	return nil
}

// FindDuplicate returns the stored transaction matching the dedup triple and
// source, or nil.
func (s *Store) FindDuplicate(_ context.Context, date time.Time, amount decimal.Decimal, merchant string, source api.Source) (*api.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index[dedupKey(date, amount, merchant, source)], nil
}

// Insert appends the transaction and rewrites the file. The mutex makes the
// duplicate-check-then-insert sequence atomic within this process.
func (s *Store) Insert(_ context.Context, txn *api.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dedupKey(txn.Date, txn.Amount, txn.Merchant, txn.Source)
	if _, exists := s.index[key]; exists {
		return api.ErrDuplicateTransaction
	}

	s.txns = append(s.txns, txn)
	s.index[key] = txn

	if err := s.persist(); err != nil {
		// Roll back the in-memory state so a retry can succeed.
		s.txns = s.txns[:len(s.txns)-1]
		delete(s.index, key)
		return fmt.Errorf("persisting transactions: %w", err)
	}

	s.logger.Debug("transaction persisted", "transaction_id", txn.ID, "total_count", len(s.txns))
	return nil
}

// persist writes the whole array; JSON does not support appending.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.txns, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling json: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Count returns the number of stored transactions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txns)
}

// dedupKey builds the index key. Amounts are rendered with two decimal
// places so 5000 and 5000.00 collide as required.
func dedupKey(date time.Time, amount decimal.Decimal, merchant string, source api.Source) string {
	return strings.Join([]string{
		date.Format(time.DateOnly),
		amount.StringFixed(2),
		merchant,
		string(source),
	}, "|")
}
