package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Token is an immutable snapshot of a tradeable token. It is supplied by the
// caller (usually the token registry) and never mutated by the auction logic.
type Token struct {
	Symbol   string         `json:"symbol"`
	Decimals int32          `json:"decimals"`
	Address  common.Address `json:"address"`

	// PriceEth is the ETH-denominated price of one token unit. Nil when no
	// price feed is known for the token.
	PriceEth *decimal.Decimal `json:"priceEth,omitempty"`
}

// TradingPair identifies a sell/buy token pair on the exchange.
type TradingPair struct {
	Sell Token
	Buy  Token
}

// String returns the conventional SELL-BUY pair label.
func (p TradingPair) String() string {
	return p.Sell.Symbol + "-" + p.Buy.Symbol
}
