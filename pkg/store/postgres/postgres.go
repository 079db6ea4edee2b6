// Package postgres provides a PostgreSQL-backed transaction store.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/budgetmail/budgetmail/pkg/api"
)

//go:embed 001_create_transactions.sql
var migrationSQL string

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// Config holds the PostgreSQL store configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string

	// MaxPoolSize is the maximum number of connections in the pool.
	MaxPoolSize int
}

// Store persists transactions in PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New creates a new PostgreSQL store, verifies connectivity and runs the
// schema migration.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = 10
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxPoolSize)
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("connected to PostgreSQL",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database,
	)

	s := &Store{pool: pool, logger: logger}

	if err := s.runMigrations(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	s.logger.Info("running database migrations")
	if _, err := s.pool.Exec(ctx, migrationSQL); err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	s.logger.Info("migrations completed successfully")
	return nil
}

// FindDuplicate returns the stored transaction matching (date, amount,
// merchant) with the given source, or nil if none exists.
func (s *Store) FindDuplicate(ctx context.Context, date time.Time, amount decimal.Decimal, merchant string, source api.Source) (*api.Transaction, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, date, amount, merchant, category, description, source, created_at, updated_at
		FROM transactions
		WHERE date = $1 AND amount = $2 AND merchant = $3 AND source = $4
	`, date, amount, merchant, string(source))

	txn, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying duplicate: %w", err)
	}
	return txn, nil
}

// Insert stores a new transaction. A hit on the partial unique index (two
// concurrent deliveries of the same notification) is reported as
// api.ErrDuplicateTransaction.
func (s *Store) Insert(ctx context.Context, txn *api.Transaction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transactions (id, date, amount, merchant, category, description, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		txn.ID,
		txn.Date,
		txn.Amount,
		txn.Merchant,
		string(txn.Category),
		txn.Description,
		string(txn.Source),
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return api.ErrDuplicateTransaction
		}
		return fmt.Errorf("inserting transaction: %w", err)
	}

	s.logger.Debug("transaction inserted", "transaction_id", txn.ID)
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("closed PostgreSQL connection pool")
	}
}

func scanTransaction(row pgx.Row) (*api.Transaction, error) {
	var (
		txn      api.Transaction
		category string
		source   string
	)
	if err := row.Scan(
		&txn.ID,
		&txn.Date,
		&txn.Amount,
		&txn.Merchant,
		&category,
		&txn.Description,
		&source,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	); err != nil {
		return nil, err
	}
	txn.Category = api.Category(category)
	txn.Source = api.Source(source)
	return &txn, nil
}
