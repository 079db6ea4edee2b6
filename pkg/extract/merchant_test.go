package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/budgetmail/budgetmail/pkg/api"
)

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "at keyword",
			text: "debited with Rs. 500 at SWIGGY INSTAMART",
			want: "SWIGGY INSTAMART",
		},
		{
			name: "mixed case name",
			text: "Your account has been debited with Rs. 5,000 at XYZ Store on 02-01-2024",
			want: "XYZ Store on 02-01-2024",
		},
		{
			name: "from keyword",
			text: "You have received Rs. 1,200 from Jane",
			want: "Jane",
		},
		{
			name: "merchant keyword with colon",
			text: "paid Rs. 300, merchant: AMAZON RETAIL",
			want: "AMAZON RETAIL",
		},
		{
			name: "name with symbols",
			text: "spent Rs. 120 at M&S Bakers Ltd",
			want: "M&S Bakers Ltd",
		},
		{
			name: "keyword in prose does not capture the sentence",
			text: "Your account has been debited with Rs. 50 at BLUE TOKAI",
			want: "BLUE TOKAI",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractMerchant(tc.text))
		})
	}
}

func TestExtractMerchant_Unknown(t *testing.T) {
	tests := []string{
		"",
		"debited with Rs. 500.",
		"no keywords anywhere in this sentence",
	}

	for _, text := range tests {
		assert.Equal(t, api.UnknownMerchant, ExtractMerchant(text), "text: %q", text)
	}
}
