package invoice

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Pricing derives cost and selling price from an invoice unit price.
type Pricing struct {
	taxFactor    decimal.Decimal
	marginFactor decimal.Decimal
}

// NewPricing builds a pricing rule from percentages, e.g. 16 and 35.
func NewPricing(taxPercent, marginPercent float64) Pricing {
	one := decimal.NewFromInt(1)
	return Pricing{
		taxFactor:    one.Add(decimal.NewFromFloat(taxPercent).Div(hundred)),
		marginFactor: one.Add(decimal.NewFromFloat(marginPercent).Div(hundred)),
	}
}

// Price returns the tax-inclusive cost and the selling price, both rounded
// to cents. The margin applies to the unrounded cost.
func (p Pricing) Price(unit decimal.Decimal) (cost, selling decimal.Decimal) {
	c := unit.Mul(p.taxFactor)
	return c.Round(2), c.Mul(p.marginFactor).Round(2)
}
