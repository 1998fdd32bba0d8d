// Package auctions derives the lifecycle state of DutchX auctions from
// contract queries. A resolution fetches timing, volume and price facts for
// a (sellToken, buyToken, auctionIndex) triple and classifies the auction as
// scheduled, running or ended. Resolutions are pure given the provider
// responses: nothing is cached and the returned records are immutable.
package auctions

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fairdex/auction-monitor/pkg/numeric"
	"github.com/fairdex/auction-monitor/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resolver classifies auctions from provider facts.
type Resolver struct {
	provider Provider
	logger   *zap.Logger
	now      func() time.Time
}

// Config holds resolver configuration.
type Config struct {
	Provider Provider
	Logger   *zap.Logger

	// Now is the clock used for the scheduled/running split. Defaults to
	// time.Now; injected in tests.
	Now func() time.Time
}

// New creates a new resolver.
func New(cfg Config) *Resolver {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Resolver{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		now:      now,
	}
}

// Resolve queries the provider and classifies the auction identified by the
// pair and index. It returns (nil, nil) whenever the provider facts are
// insufficient to build a consistent record: no auction start recorded, a
// close without end time or positive bid volume, or a started auction with
// no price yet. Callers treat an absent result as "not resolvable yet" and
// re-poll; only transport failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, sell, buy types.Token, auctionIndex string) (types.Auction, error) {
	start := r.now()
	auction, err := r.resolve(ctx, sell, buy, auctionIndex)
	ResolutionDurationSeconds.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		ResolutionErrorsTotal.Inc()
	case auction == nil:
		ResolutionsNoResultTotal.Inc()
	default:
		ResolutionsTotal.WithLabelValues(string(auction.State())).Inc()
	}

	return auction, err
}

func (r *Resolver) resolve(ctx context.Context, sell, buy types.Token, auctionIndex string) (types.Auction, error) {
	var (
		auctionStart   *time.Time
		rawSellVolume  *decimal.Decimal
		rawBuyVolume   *decimal.Decimal
		rawExtraTokens *decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		auctionStart, err = r.provider.AuctionStart(gctx, sell, buy)
		return err
	})
	g.Go(func() (err error) {
		rawSellVolume, err = r.provider.SellVolume(gctx, sell, buy)
		return err
	})
	g.Go(func() (err error) {
		rawBuyVolume, err = r.provider.BuyVolume(gctx, sell, buy)
		return err
	})
	g.Go(func() (err error) {
		rawExtraTokens, err = r.provider.ExtraTokens(gctx, sell, buy, auctionIndex)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if auctionStart == nil {
		r.logger.Debug("auction-unknown",
			zap.String("pair", sell.Symbol+"-"+buy.Symbol),
			zap.String("auction-index", auctionIndex))
		return nil, nil
	}

	// Only the start and the prices are genuinely optional. Volumes default
	// to zero at this boundary, so a missing sell volume reads as drained
	// and closes the auction like a zero one would.
	sellVolume := orZero(rawSellVolume)
	buyVolume := orZero(rawBuyVolume)

	data := types.AuctionData{
		AuctionIndex:      auctionIndex,
		SellToken:         sell.Symbol,
		SellTokenDecimals: sell.Decimals,
		SellTokenAddress:  sell.Address,
		SellVolume:        sellVolume,
		ExtraTokens:       orZero(rawExtraTokens),
		BuyToken:          buy.Symbol,
		BuyTokenDecimals:  buy.Decimals,
		BuyTokenAddress:   buy.Address,
		BuyVolume:         buyVolume,
	}

	var currentPrice, closingPrice *types.Fraction

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		currentPrice, err = r.provider.CurrentPrice(gctx, sell, buy, auctionIndex)
		return err
	})
	g.Go(func() (err error) {
		closingPrice, err = r.provider.ClosingPrice(gctx, sell, buy, auctionIndex)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if isClosed(sellVolume, closingPrice) || isTheoreticalClosed(currentPrice, sellVolume, buyVolume) {
		return r.resolveEnded(ctx, sell, buy, auctionIndex, data, closingPrice)
	}

	return r.resolveOpen(ctx, sell, buy, auctionIndex, data, *auctionStart, currentPrice)
}

// isClosed reports explicit closure: the contract has drained the sell
// volume to zero, or it has recorded a closing price with a defined value.
// Volumes were already defaulted, so an absent sell volume closes too.
func isClosed(sellVolume decimal.Decimal, closingPrice *types.Fraction) bool {
	if sellVolume.IsZero() {
		return true
	}
	return closingPrice != nil && closingPrice.Defined()
}

// isTheoreticalClosed reports that supply and demand have mathematically
// equalized even though the contract has not flagged the auction closed:
// numerator*sellVolume - denominator*buyVolume == 0. The cross
// multiplication avoids a division so the zero test is exact.
func isTheoreticalClosed(currentPrice *types.Fraction, sellVolume, buyVolume decimal.Decimal) bool {
	if currentPrice == nil {
		return false
	}

	diff := currentPrice.Numerator.Mul(sellVolume).
		Sub(currentPrice.Denominator.Mul(buyVolume))

	return diff.IsZero()
}

func (r *Resolver) resolveEnded(
	ctx context.Context,
	sell, buy types.Token,
	auctionIndex string,
	data types.AuctionData,
	closingPrice *types.Fraction,
) (types.Auction, error) {
	var (
		endedStart *time.Time
		auctionEnd *time.Time
		bidVolume  *decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		endedStart, err = r.provider.EndedAuctionStart(gctx, sell, buy, auctionIndex)
		return err
	})
	g.Go(func() (err error) {
		auctionEnd, err = r.provider.AuctionEnd(gctx, sell, buy, auctionIndex)
		return err
	})
	g.Go(func() (err error) {
		bidVolume, err = r.provider.BidVolume(gctx, sell, buy, auctionIndex)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A close without an end time or a positive bid volume is an
	// incomplete contract state, not an error. The next poll resolves it.
	if auctionEnd == nil || !orZero(bidVolume).IsPositive() {
		r.logger.Debug("auction-close-incomplete",
			zap.String("pair", sell.Symbol+"-"+buy.Symbol),
			zap.String("auction-index", auctionIndex),
			zap.Bool("has-end-time", auctionEnd != nil))
		return nil, nil
	}

	data.BuyVolume = *bidVolume

	return &types.EndedAuction{
		AuctionData:  data,
		AuctionStart: endedStart,
		AuctionEnd:   *auctionEnd,
		ClosingPrice: closingPrice,
	}, nil
}

func (r *Resolver) resolveOpen(
	ctx context.Context,
	sell, buy types.Token,
	auctionIndex string,
	data types.AuctionData,
	auctionStart time.Time,
	currentPrice *types.Fraction,
) (types.Auction, error) {
	previousClosingPrice, err := r.provider.PreviousClosingPrice(ctx, sell, buy, auctionIndex)
	if err != nil {
		return nil, err
	}

	if auctionStart.After(r.now()) {
		return &types.ScheduledAuction{
			AuctionData:  data,
			AuctionStart: auctionStart,
			ClosingPrice: previousClosingPrice,
		}, nil
	}

	if currentPrice != nil {
		return &types.RunningAuction{
			AuctionData:  data,
			AuctionStart: auctionStart,
			CurrentPrice: *currentPrice,
			ClosingPrice: previousClosingPrice,
		}, nil
	}

	// Started per the contract clock but no price yet: a transient
	// provider state.
	r.logger.Debug("auction-started-without-price",
		zap.String("pair", sell.Symbol+"-"+buy.Symbol),
		zap.String("auction-index", auctionIndex))
	return nil, nil
}

// UnclaimedFunds returns the account's unclaimed funds in the auction.
func (r *Resolver) UnclaimedFunds(ctx context.Context, sell, buy types.Token, auctionIndex string, account common.Address) (*decimal.Decimal, error) {
	return r.provider.UnclaimedFunds(ctx, sell, buy, auctionIndex, account)
}

// BuyerBalance returns the account's bid balance in the auction.
func (r *Resolver) BuyerBalance(ctx context.Context, sell, buy types.Token, auctionIndex string, account common.Address) (*decimal.Decimal, error) {
	return r.provider.BuyerBalance(ctx, sell, buy, auctionIndex, account)
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return numeric.Zero
	}
	return *d
}
