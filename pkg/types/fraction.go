package types

import "github.com/shopspring/decimal"

// Fraction is a price ratio as reported by the exchange contract: an exact
// numerator/denominator pair. The quotient is only defined when the
// denominator is non-zero; the contract reports 0/0 for auctions that have
// not produced a price yet.
type Fraction struct {
	Numerator   decimal.Decimal `json:"numerator"`
	Denominator decimal.Decimal `json:"denominator"`
}

// Value returns the decimal quotient of the fraction. The second return is
// false when the denominator is zero and no value is defined.
func (f Fraction) Value() (decimal.Decimal, bool) {
	if f.Denominator.IsZero() {
		return decimal.Zero, false
	}
	return f.Numerator.Div(f.Denominator), true
}

// Defined reports whether the fraction has a usable quotient.
func (f Fraction) Defined() bool {
	return !f.Denominator.IsZero()
}
