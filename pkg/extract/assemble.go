package extract

import (
	"time"

	"github.com/google/uuid"

	"github.com/budgetmail/budgetmail/pkg/api"
)

// Assemble turns a raw email into a transaction candidate. A nil result
// means the email is not a parseable bank notification; that is the normal
// outcome for most inbox traffic, not an error.
//
// Apart from the generated ID and the created/updated timestamps, the result
// is a deterministic function of the email.
func Assemble(email *api.RawEmail) *api.Transaction {
	amount, ok := ExtractAmount(email.Text)
	if !ok {
		return nil
	}

	merchant := Merchant{Raw: ExtractMerchant(email.Text)}
	merchant.Normalized = NormalizeMerchant(merchant.Raw)

	now := time.Now().UTC()
	return &api.Transaction{
		ID:          "txn_" + uuid.NewString(),
		Date:        dateOnly(email.Date),
		Amount:      amount.Value,
		Merchant:    merchant.Normalized,
		Category:    Categorize(merchant.Normalized),
		Description: email.Subject,
		Source:      api.SourceEmail,
		CreatedAt:   now,
		UpdatedAt:   now,
		EmailID:     email.ID,
	}
}

// dateOnly truncates a timestamp to its calendar day in UTC.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
