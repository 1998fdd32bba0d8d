package auctions

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fairdex/auction-monitor/pkg/numeric"
	"github.com/fairdex/auction-monitor/pkg/types"
	"github.com/shopspring/decimal"
)

// AuctionDuration is the fixed length of a DutchX auction.
const AuctionDuration = 6 * time.Hour

// abovePriorPriceThreshold marks a running auction as expensive when its
// current price exceeds 110% of the prior closing price.
var abovePriorPriceThreshold = decimal.RequireFromString("1.1")

// TokenLookup resolves tokens by contract address.
type TokenLookup interface {
	TokenByAddress(addr common.Address) (types.Token, bool)
}

// AvailableVolume computes how much buy-token volume a running auction can
// still absorb: sellVolume*price - buyVolume, carried out in raw atomic
// units and converted back to a display amount scaled by the buy token's
// decimals. It returns zero unless the sell volume is positive, the buy
// volume non-negative and the price value non-negative; the guards are
// ordered so each is only evaluated once the previous one holds.
func AvailableVolume(a *types.RunningAuction) decimal.Decimal {
	if !a.SellVolume.IsPositive() {
		return numeric.Zero
	}
	if a.BuyVolume.IsNegative() {
		return numeric.Zero
	}
	value, ok := a.CurrentPrice.Value()
	if !ok || value.IsNegative() {
		return numeric.Zero
	}

	sellRaw := numeric.ToAtomic(a.SellVolume, a.SellTokenDecimals)
	buyRaw := numeric.ToAtomic(a.BuyVolume, a.BuyTokenDecimals)

	remaining := sellRaw.
		Mul(a.CurrentPrice.Numerator).
		Div(a.CurrentPrice.Denominator).
		Sub(buyRaw)

	return numeric.FromAtomic(remaining, a.BuyTokenDecimals)
}

// EstimatedEndTime returns the auction start plus the fixed auction
// duration. The second return is false when no start time was recorded.
func EstimatedEndTime(a *types.RunningAuction) (time.Time, bool) {
	if a.AuctionStart.IsZero() {
		return time.Time{}, false
	}
	return a.AuctionStart.Add(AuctionDuration), true
}

// IsAbovePriorClosingPrice reports whether a running auction's current
// price exceeds 110% of the prior closing price. Any other auction state,
// or a missing price value on either side, yields false.
func IsAbovePriorClosingPrice(a types.Auction) bool {
	running, ok := a.(*types.RunningAuction)
	if !ok {
		return false
	}

	current, ok := running.CurrentPrice.Value()
	if !ok {
		return false
	}

	if running.ClosingPrice == nil {
		return false
	}
	closing, ok := running.ClosingPrice.Value()
	if !ok {
		return false
	}

	return current.GreaterThan(closing.Mul(abovePriorPriceThreshold))
}

// SellVolumeInEth values the auction's sell volume in ETH using the sell
// token's unit price from the registry. Zero when the volume is not
// positive or no positive ETH price is known for the token.
func SellVolumeInEth(a types.Auction, tokens TokenLookup) decimal.Decimal {
	data := a.Data()

	if !data.SellVolume.IsPositive() {
		return numeric.Zero
	}

	sellToken, ok := tokens.TokenByAddress(data.SellTokenAddress)
	if !ok || sellToken.PriceEth == nil || !sellToken.PriceEth.IsPositive() {
		return numeric.Zero
	}

	return data.SellVolume.Mul(*sellToken.PriceEth)
}

// PriceRate renders a two-line human-readable exchange rate for a price
// value, formatting both the value and its inverse to the requested number
// of decimals. Empty for missing or non-positive values.
func PriceRate(value decimal.Decimal, sellSymbol, buySymbol string, decimals int32) string {
	if !value.IsPositive() {
		return ""
	}

	formatted := numeric.Format(value, decimals)
	formattedInverse := numeric.Format(numeric.Inverse(value), decimals)

	return fmt.Sprintf("1 %s = %s %s\n1 %s = %s %s",
		sellSymbol, formatted, buySymbol,
		buySymbol, formattedInverse, sellSymbol)
}

// CurrentPriceRate renders the running auction's live price as an exchange
// rate string.
func CurrentPriceRate(a *types.RunningAuction, decimals int32) string {
	value, ok := a.CurrentPrice.Value()
	if !ok {
		return ""
	}
	return PriceRate(value, a.SellToken, a.BuyToken, decimals)
}

// ClosingPriceRate renders the auction's closing price (the previous
// auction's for open states, its own for ended ones) as an exchange rate
// string.
func ClosingPriceRate(a types.Auction, decimals int32) string {
	cp := ClosingPriceOf(a)
	if cp == nil {
		return ""
	}
	value, ok := cp.Value()
	if !ok {
		return ""
	}
	return PriceRate(value, a.Data().SellToken, a.Data().BuyToken, decimals)
}

// CounterCurrencyPrice returns the price expressed in the counter currency,
// i.e. the multiplicative inverse. Zero values are returned unchanged since
// they have no inverse.
func CounterCurrencyPrice(value decimal.Decimal) decimal.Decimal {
	if value.IsZero() {
		return value
	}
	return numeric.Inverse(value)
}

// TotalClaimFound computes the sell-token amount claimable for the buyer
// balance at the closing price. Zero when the closing price or the buyer
// balance is absent.
func TotalClaimFound(a types.Auction) decimal.Decimal {
	cp := ClosingPriceOf(a)
	if cp == nil {
		return numeric.Zero
	}
	value, ok := cp.Value()
	if !ok || value.IsZero() {
		return numeric.Zero
	}

	data := a.Data()
	if data.BuyerBalance == nil {
		return numeric.Zero
	}

	return data.BuyerBalance.Div(value)
}

// ClosingPriceOf extracts the closing price carried by any auction variant.
func ClosingPriceOf(a types.Auction) *types.Fraction {
	switch v := a.(type) {
	case *types.ScheduledAuction:
		return v.ClosingPrice
	case *types.RunningAuction:
		return v.ClosingPrice
	case *types.EndedAuction:
		return v.ClosingPrice
	default:
		return nil
	}
}
