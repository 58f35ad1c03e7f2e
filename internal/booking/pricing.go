package booking

import "staysphere-backend/internal/model"

// Pricer computes the price breakdown of a stay.
type Pricer struct {
	CleaningFee       model.Money
	ServiceFeePercent int
}

// Quote prices nights at nightlyRate. The service fee is a percentage of the
// nightly subtotal, rounded half up to the nearest cent.
func (p Pricer) Quote(nightlyRate model.Money, nights int) model.PriceBreakdown {
	subtotal := nightlyRate * model.Money(nights)
	serviceFee := (subtotal*model.Money(p.ServiceFeePercent) + 50) / 100

	return model.PriceBreakdown{
		NightlyRate: nightlyRate,
		Nights:      nights,
		CleaningFee: p.CleaningFee,
		ServiceFee:  serviceFee,
		Total:       subtotal + p.CleaningFee + serviceFee,
	}
}
