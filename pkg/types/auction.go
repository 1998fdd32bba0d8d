package types

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// AuctionState discriminates the auction lifecycle variants.
type AuctionState string

const (
	AuctionScheduled AuctionState = "scheduled"
	AuctionRunning   AuctionState = "running"
	AuctionEnded     AuctionState = "ended"
)

// AuctionData is the base record shared by every auction variant. Volumes
// are human-readable token amounts (already scaled by token decimals);
// missing provider volumes are defaulted to zero before the record is built.
type AuctionData struct {
	AuctionIndex string `json:"auctionIndex"`

	SellToken         string          `json:"sellToken"`
	SellTokenDecimals int32           `json:"sellTokenDecimals"`
	SellTokenAddress  common.Address  `json:"sellTokenAddress"`
	SellVolume        decimal.Decimal `json:"sellVolume"`
	ExtraTokens       decimal.Decimal `json:"extraTokens"`

	BuyToken         string          `json:"buyToken"`
	BuyTokenDecimals int32           `json:"buyTokenDecimals"`
	BuyTokenAddress  common.Address  `json:"buyTokenAddress"`
	BuyVolume        decimal.Decimal `json:"buyVolume"`

	// BuyerBalance is the resolving account's balance in this auction.
	// Nil unless the resolution was account-scoped.
	BuyerBalance *decimal.Decimal `json:"buyerBalance,omitempty"`
}

// Key returns the composite identity used to diff auction records:
// (sellTokenAddress, buyTokenAddress, auctionIndex).
func (d *AuctionData) Key() string {
	return fmt.Sprintf("%s-%s-%s", d.SellTokenAddress.Hex(), d.BuyTokenAddress.Hex(), d.AuctionIndex)
}

// Auction is a closed union over the three lifecycle variants. Exactly one
// variant is produced per successful resolution and records are never
// mutated after construction.
type Auction interface {
	State() AuctionState
	Data() *AuctionData

	// sealed prevents implementations outside this package.
	sealed()
}

// ScheduledAuction is an auction whose start time lies in the future.
// ClosingPrice carries the previous auction's closing price for display
// continuity; there is no current price yet.
type ScheduledAuction struct {
	AuctionData
	AuctionStart time.Time `json:"auctionStart"`
	ClosingPrice *Fraction `json:"closingPrice,omitempty"`
}

func (a *ScheduledAuction) State() AuctionState { return AuctionScheduled }
func (a *ScheduledAuction) Data() *AuctionData  { return &a.AuctionData }
func (a *ScheduledAuction) sealed()             {}

// RunningAuction is an in-progress auction with a live price.
// ClosingPrice carries the previous auction's closing price.
type RunningAuction struct {
	AuctionData
	AuctionStart time.Time `json:"auctionStart"`
	CurrentPrice Fraction  `json:"currentPrice"`
	ClosingPrice *Fraction `json:"closingPrice,omitempty"`
}

func (a *RunningAuction) State() AuctionState { return AuctionRunning }
func (a *RunningAuction) Data() *AuctionData  { return &a.AuctionData }
func (a *RunningAuction) sealed()             {}

// EndedAuction is a closed auction. BuyVolume holds the final bid volume
// and ClosingPrice is this auction's own closing price. AuctionStart is the
// start of the ended instance and may be absent if the provider never
// recorded it.
type EndedAuction struct {
	AuctionData
	AuctionStart *time.Time `json:"auctionStart,omitempty"`
	AuctionEnd   time.Time  `json:"auctionEnd"`
	ClosingPrice *Fraction  `json:"closingPrice,omitempty"`
}

func (a *EndedAuction) State() AuctionState { return AuctionEnded }
func (a *EndedAuction) Data() *AuctionData  { return &a.AuctionData }
func (a *EndedAuction) sealed()             {}
