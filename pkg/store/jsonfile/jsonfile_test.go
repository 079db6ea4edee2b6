package jsonfile

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetmail/budgetmail/pkg/api"
)

func testTxn(id, amount string) *api.Transaction {
	return &api.Transaction{
		ID:          id,
		Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString(amount),
		Merchant:    "XYZ STORE",
		Category:    api.CategoryShopping,
		Description: "Debit alert",
		Source:      api.SourceEmail,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestStore_InsertAndFindDuplicate(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "transactions.json"), nil)
	require.NoError(t, err)
	ctx := context.Background()

	txn := testTxn("txn_1", "5000")
	require.NoError(t, store.Insert(ctx, txn))

	found, err := store.FindDuplicate(ctx, txn.Date, txn.Amount, txn.Merchant, txn.Source)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "txn_1", found.ID)

	missing, err := store.FindDuplicate(ctx, txn.Date, decimal.NewFromInt(1), txn.Merchant, txn.Source)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_InsertDuplicateRejected(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "transactions.json"), nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testTxn("txn_1", "5000")))
	err = store.Insert(ctx, testTxn("txn_2", "5000.00"))

	assert.ErrorIs(t, err, api.ErrDuplicateTransaction, "5000 and 5000.00 must collide")
	assert.Equal(t, 1, store.Count())
}

func TestStore_DedupSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.json")
	ctx := context.Background()

	store, err := New(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, testTxn("txn_1", "5000")))

	reloaded, err := New(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Count())

	err = reloaded.Insert(ctx, testTxn("txn_2", "5000"))
	assert.ErrorIs(t, err, api.ErrDuplicateTransaction)

	found, err := reloaded.FindDuplicate(ctx,
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(5000), "XYZ STORE", api.SourceEmail)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "txn_1", found.ID)
}

func TestStore_SourcesDoNotCollide(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "transactions.json"), nil)
	require.NoError(t, err)
	ctx := context.Background()

	email := testTxn("txn_email", "5000")
	manual := testTxn("txn_manual", "5000")
	manual.Source = api.SourceManual

	require.NoError(t, store.Insert(ctx, email))
	require.NoError(t, store.Insert(ctx, manual))
	assert.Equal(t, 2, store.Count())
}
