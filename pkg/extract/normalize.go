package extract

import (
	"regexp"
	"strings"

	"github.com/budgetmail/budgetmail/pkg/api"
)

var digitSpaceRuns = regexp.MustCompile(`[\d\s]+`)

// NormalizeMerchant canonicalizes a raw merchant token: every run of digits
// and whitespace collapses into a single space, the result is trimmed and
// uppercased. Tokens that normalize to nothing (all digits, all whitespace)
// fall back to the uppercased sentinel so the result is never empty.
// NormalizeMerchant is idempotent.
func NormalizeMerchant(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(digitSpaceRuns.ReplaceAllString(raw, " ")))
	if s == "" {
		return strings.ToUpper(api.UnknownMerchant)
	}
	return s
}
