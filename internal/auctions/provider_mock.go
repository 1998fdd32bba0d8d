package auctions

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fairdex/auction-monitor/pkg/types"
	"github.com/shopspring/decimal"
)

// MockProvider is a canned-response Provider for tests. It lives in this
// package so resolver tests and dependents can share it without import
// cycles.
type MockProvider struct {
	Start        *time.Time
	SellVol      *decimal.Decimal
	BuyVol       *decimal.Decimal
	Extra        *decimal.Decimal
	Bid          *decimal.Decimal
	Current      *types.Fraction
	Closing      *types.Fraction
	PrevClosing  *types.Fraction
	EndedStart   *time.Time
	End          *time.Time
	Unclaimed    *decimal.Decimal
	Balance      *decimal.Decimal
	LatestIndex  string
	Err          error

	mu    sync.Mutex
	calls []string
}

func (m *MockProvider) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, method)
}

// Calls returns the methods invoked so far, in invocation order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times the named method was invoked.
func (m *MockProvider) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *MockProvider) AuctionStart(ctx context.Context, sell, buy types.Token) (*time.Time, error) {
	m.record("AuctionStart")
	return m.Start, m.Err
}

func (m *MockProvider) SellVolume(ctx context.Context, sell, buy types.Token) (*decimal.Decimal, error) {
	m.record("SellVolume")
	return m.SellVol, m.Err
}

func (m *MockProvider) BuyVolume(ctx context.Context, sell, buy types.Token) (*decimal.Decimal, error) {
	m.record("BuyVolume")
	return m.BuyVol, m.Err
}

func (m *MockProvider) BidVolume(ctx context.Context, sell, buy types.Token, auctionIndex string) (*decimal.Decimal, error) {
	m.record("BidVolume")
	return m.Bid, m.Err
}

func (m *MockProvider) ExtraTokens(ctx context.Context, sell, buy types.Token, auctionIndex string) (*decimal.Decimal, error) {
	m.record("ExtraTokens")
	return m.Extra, m.Err
}

func (m *MockProvider) CurrentPrice(ctx context.Context, sell, buy types.Token, auctionIndex string) (*types.Fraction, error) {
	m.record("CurrentPrice")
	return m.Current, m.Err
}

func (m *MockProvider) ClosingPrice(ctx context.Context, sell, buy types.Token, auctionIndex string) (*types.Fraction, error) {
	m.record("ClosingPrice")
	return m.Closing, m.Err
}

func (m *MockProvider) PreviousClosingPrice(ctx context.Context, sell, buy types.Token, auctionIndex string) (*types.Fraction, error) {
	m.record("PreviousClosingPrice")
	return m.PrevClosing, m.Err
}

func (m *MockProvider) EndedAuctionStart(ctx context.Context, sell, buy types.Token, auctionIndex string) (*time.Time, error) {
	m.record("EndedAuctionStart")
	return m.EndedStart, m.Err
}

func (m *MockProvider) AuctionEnd(ctx context.Context, sell, buy types.Token, auctionIndex string) (*time.Time, error) {
	m.record("AuctionEnd")
	return m.End, m.Err
}

func (m *MockProvider) UnclaimedFunds(ctx context.Context, sell, buy types.Token, auctionIndex string, account common.Address) (*decimal.Decimal, error) {
	m.record("UnclaimedFunds")
	return m.Unclaimed, m.Err
}

func (m *MockProvider) BuyerBalance(ctx context.Context, sell, buy types.Token, auctionIndex string, account common.Address) (*decimal.Decimal, error) {
	m.record("BuyerBalance")
	return m.Balance, m.Err
}

func (m *MockProvider) LatestAuctionIndex(ctx context.Context, sell, buy types.Token) (string, error) {
	m.record("LatestAuctionIndex")
	return m.LatestIndex, m.Err
}
