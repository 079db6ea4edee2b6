package extract

import (
	"regexp"
	"strings"

	"github.com/budgetmail/budgetmail/pkg/api"
)

// Merchant is a merchant token as matched in the text plus its canonical
// form. Normalized is never empty.
type Merchant struct {
	Raw        string
	Normalized string
}

// merchantPattern matches a preposition or keyword followed by a run of
// name-like characters. The run must open with an uppercase letter or digit
// so that a keyword buried in prose ("Your account has been ...") does not
// capture the sentence that follows it; after that the run may continue in
// either case, since merchants appear both as "XYZ Store" and "SWIGGY".
var merchantPattern = regexp.MustCompile(`(?i:merchant|at|from|to|shop|store|atm|account)[\s:]*([A-Z0-9][A-Za-z\s\-.&\d]{2,})`)

// ExtractMerchant returns the raw merchant token matched in the text, or
// UnknownMerchant when nothing matched. This is a best-effort heuristic:
// truncated names and over-greedy captures (trailing dates, "on", ...) are
// expected and cleaned up by normalization only partially.
func ExtractMerchant(text string) string {
	if m := merchantPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return api.UnknownMerchant
}
