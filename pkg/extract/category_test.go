package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/budgetmail/budgetmail/pkg/api"
)

// Every keyword in the rule table, embedded in an otherwise neutral merchant
// string, must resolve to its owning category.
func TestCategorize_KeywordCoverage(t *testing.T) {
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			merchant := "QQ " + kw + " QQ"
			assert.Equal(t, rule.Category, Categorize(merchant), "keyword: %q", kw)
		}
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		merchant string
		want     api.Category
	}{
		{"SWIGGY INSTAMART", api.CategoryFoodDining},
		{"XYZ STORE ON - -", api.CategoryShopping},
		{"UBER INDIA", api.CategoryTransport},
		{"NETFLIX ENTERTAINMENT SERVICES", api.CategoryEntertainment},
		{"TATA POWER ELECTRICITY", api.CategoryUtilities},
		{"APOLLO PHARMACY", api.CategoryHealthcare},
		{"JANE", api.CategoryUncategorized},
		{"UNKNOWN", api.CategoryUncategorized},
		{"", api.CategoryUncategorized},
	}

	for _, tc := range tests {
		t.Run(tc.merchant, func(t *testing.T) {
			assert.Equal(t, tc.want, Categorize(tc.merchant))
		})
	}
}

// Rule order is part of the contract: a merchant matching keywords from two
// categories resolves to whichever rule is declared first.
func TestCategorize_OrderResolvesAmbiguity(t *testing.T) {
	// "cafe" (Food & Dining) beats "store" (Shopping).
	assert.Equal(t, api.CategoryFoodDining, Categorize("CAFE GENERAL STORE"))
	// "fuel" (Transport) beats "gas" (Utilities) via the earlier rule.
	assert.Equal(t, api.CategoryTransport, Categorize("FUEL AND GAS SUPPLY"))
}
