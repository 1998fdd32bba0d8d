// Package numeric provides the decimal arithmetic helpers shared by the
// auction math: conversion between human-readable token amounts and raw
// atomic units, and fixed-point formatting for display values.
package numeric

import "github.com/shopspring/decimal"

// Zero is the canonical zero amount. Provider responses that omit a volume
// are defaulted to Zero; genuinely absent values stay nil at the boundary.
var Zero = decimal.Zero

// DefaultDisplayDecimals is the number of fraction digits used when
// formatting a price or amount without an explicit precision.
const DefaultDisplayDecimals = 6

// ToAtomic converts a human-readable token amount into raw atomic units
// given the token's decimal-place count. The result is truncated to an
// integer since atomic units are indivisible.
func ToAtomic(amount decimal.Decimal, decimals int32) decimal.Decimal {
	return amount.Shift(decimals).Truncate(0)
}

// FromAtomic converts a raw atomic-unit amount back into a human-readable
// token amount given the token's decimal-place count.
func FromAtomic(raw decimal.Decimal, decimals int32) decimal.Decimal {
	return raw.Shift(-decimals)
}

// Format renders d with exactly the requested number of fraction digits.
func Format(d decimal.Decimal, decimals int32) string {
	return d.StringFixed(decimals)
}

// Inverse returns the multiplicative inverse of d, computed as d raised to
// the power -1 so that the inverse rate keeps the same precision behavior
// as the forward rate.
func Inverse(d decimal.Decimal) decimal.Decimal {
	return d.Pow(decimal.NewFromInt(-1))
}
