package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"staysphere-backend/internal/model"
)

func TestPricer_Quote(t *testing.T) {
	pricer := Pricer{CleaningFee: 5000, ServiceFeePercent: 14}

	testCases := []struct {
		name     string
		rate     model.Money
		nights   int
		expected model.PriceBreakdown
	}{
		{
			name:     "one night",
			rate:     12000,
			nights:   1,
			expected: model.PriceBreakdown{NightlyRate: 12000, Nights: 1, CleaningFee: 5000, ServiceFee: 1680, Total: 18680},
		},
		{
			name:     "fee rounds half up",
			rate:     125,
			nights:   1,
			expected: model.PriceBreakdown{NightlyRate: 125, Nights: 1, CleaningFee: 5000, ServiceFee: 18, Total: 5143},
		},
		{
			name:     "fee rounds down below half",
			rate:     103,
			nights:   1,
			expected: model.PriceBreakdown{NightlyRate: 103, Nights: 1, CleaningFee: 5000, ServiceFee: 14, Total: 5117},
		},
		{
			name:     "four weeks",
			rate:     9999,
			nights:   28,
			expected: model.PriceBreakdown{NightlyRate: 9999, Nights: 28, CleaningFee: 5000, ServiceFee: 39196, Total: 324168},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, pricer.Quote(tc.rate, tc.nights))
		})
	}
}
