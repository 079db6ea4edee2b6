// Package extract turns raw bank notification text into structured
// transaction fields. Everything in this package is pure: no I/O, no store
// access, no retries.
package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/budgetmail/budgetmail/pkg/api"
)

// Amount is a monetary amount matched in notification text.
type Amount struct {
	Value    decimal.Decimal
	Polarity api.Polarity
}

// amountPattern pairs a polarity with the regex that detects it.
type amountPattern struct {
	polarity api.Polarity
	re       *regexp.Regexp
}

// amountPatterns is evaluated in declaration order: debit intent is tried
// before credit intent, so text mentioning both records the money-out event.
// The verb may be joined to the literal by "of", ":" or "with"; the numeric
// grammar permits thousands separators and an optional decimal part; the
// currency marker (Rs., Rs, ₹) is optional.
var amountPatterns = []amountPattern{
	{api.PolarityDebit, regexp.MustCompile(`(?i)(?:debit|debited|withdrawn|spent|paid|transfer)\s*(?:of|:|with)?\s*(?:Rs\.?|₹)?\s*([\d,]+\.?\d*)`)},
	{api.PolarityCredit, regexp.MustCompile(`(?i)(?:credit|credited|received|deposited)\s*(?:of|:|with)?\s*(?:Rs\.?|₹)?\s*([\d,]+\.?\d*)`)},
}

// ExtractAmount scans body text for a monetary amount. The boolean result is
// false when no pattern matched or the matched value is zero; most inbox
// noise takes this path. When a pattern matches several times, only the
// first match in scan order is used.
func ExtractAmount(text string) (Amount, bool) {
	for _, p := range amountPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		value, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil || value.IsZero() {
			// A matched pattern with a zero (or unparseable) literal means
			// the email is not a usable notification; credit patterns are
			// not consulted as a fallback.
			return Amount{}, false
		}

		return Amount{Value: value, Polarity: p.polarity}, true
	}

	return Amount{}, false
}
