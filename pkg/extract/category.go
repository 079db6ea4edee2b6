package extract

import (
	"strings"

	"github.com/budgetmail/budgetmail/pkg/api"
)

// CategoryRule pairs a category with the keywords that select it.
type CategoryRule struct {
	Category api.Category
	Keywords []string
}

// categoryRules is evaluated in declaration order and the first keyword hit
// wins, so the order below is part of the contract: a merchant containing
// both "cafe" and "store" resolves to Food & Dining, not Shopping.
var categoryRules = []CategoryRule{
	{api.CategoryFoodDining, []string{
		"swiggy", "zomato", "restaurant", "cafe", "coffee", "pizza", "burger", "mcdonalds", "subway",
	}},
	{api.CategoryTransport, []string{
		"uber", "ola", "taxi", "metro", "fuel", "petrol", "gas station", "railways",
	}},
	{api.CategoryShopping, []string{
		"amazon", "flipkart", "myntra", "uniqlo", "mall", "store", "shop",
	}},
	{api.CategoryEntertainment, []string{
		"netflix", "prime", "movie", "cinema", "games", "spotify", "youtube",
	}},
	{api.CategoryUtilities, []string{
		"electricity", "water", "gas", "internet", "mobile", "phone", "broadband",
	}},
	{api.CategoryHealthcare, []string{
		"hospital", "pharmacy", "doctor", "medical", "clinic", "health",
	}},
}

// Categorize maps a normalized merchant string to a spending category by
// case-insensitive substring match against the rule table. Merchants that
// match no keyword are Uncategorized.
func Categorize(merchant string) api.Category {
	lower := strings.ToLower(merchant)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return api.CategoryUncategorized
}
