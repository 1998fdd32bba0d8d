package auctions

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fairdex/auction-monitor/pkg/types"
	"github.com/shopspring/decimal"
)

// Provider is the exchange contract query surface the resolver depends on.
// Every method is a single read against the DutchX contract; absence is
// reported as a nil pointer, distinct from zero. Transport failures are
// returned as errors and propagate to the caller unrecovered.
type Provider interface {
	// AuctionStart returns the start time of the current auction for the
	// pair, or nil when no auction exists for it yet.
	AuctionStart(ctx context.Context, sell, buy types.Token) (*time.Time, error)

	// SellVolume returns the current sell volume for the pair, nil when the
	// contract has no value.
	SellVolume(ctx context.Context, sell, buy types.Token) (*decimal.Decimal, error)

	// BuyVolume returns the current buy volume for the pair, nil when the
	// contract has no value.
	BuyVolume(ctx context.Context, sell, buy types.Token) (*decimal.Decimal, error)

	// BidVolume is the per-auction-index form of the buy volume query. It
	// returns the final bid volume recorded for that auction instance.
	BidVolume(ctx context.Context, sell, buy types.Token, auctionIndex string) (*decimal.Decimal, error)

	// ExtraTokens returns the extra token balance added to the auction.
	ExtraTokens(ctx context.Context, sell, buy types.Token, auctionIndex string) (*decimal.Decimal, error)

	// CurrentPrice returns the live price ratio, nil when the auction has
	// not started pricing.
	CurrentPrice(ctx context.Context, sell, buy types.Token, auctionIndex string) (*types.Fraction, error)

	// ClosingPrice returns the recorded closing price ratio for the index.
	// The fraction may be present but undefined (0/0) while the auction is
	// still open.
	ClosingPrice(ctx context.Context, sell, buy types.Token, auctionIndex string) (*types.Fraction, error)

	// PreviousClosingPrice returns the closing price of the auction before
	// the given index, carried forward for display continuity.
	PreviousClosingPrice(ctx context.Context, sell, buy types.Token, auctionIndex string) (*types.Fraction, error)

	// EndedAuctionStart returns the start time of the ended auction
	// instance, nil when the contract never recorded one.
	EndedAuctionStart(ctx context.Context, sell, buy types.Token, auctionIndex string) (*time.Time, error)

	// AuctionEnd returns the end time of the auction, nil while it is open.
	AuctionEnd(ctx context.Context, sell, buy types.Token, auctionIndex string) (*time.Time, error)

	// UnclaimedFunds returns the account's unclaimed funds in the auction.
	UnclaimedFunds(ctx context.Context, sell, buy types.Token, auctionIndex string, account common.Address) (*decimal.Decimal, error)

	// BuyerBalance returns the account's bid balance in the auction.
	BuyerBalance(ctx context.Context, sell, buy types.Token, auctionIndex string, account common.Address) (*decimal.Decimal, error)

	// LatestAuctionIndex returns the index of the newest auction for the
	// pair. Indexes are opaque strings, monotonically increasing per pair.
	LatestAuctionIndex(ctx context.Context, sell, buy types.Token) (string, error)
}
