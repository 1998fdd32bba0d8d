package auctions

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fairdex/auction-monitor/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLookup map[common.Address]types.Token

func (s staticLookup) TokenByAddress(addr common.Address) (types.Token, bool) {
	token, ok := s[addr]
	return token, ok
}

func runningAuction(sellVolume, buyVolume string, price *types.Fraction) *types.RunningAuction {
	a := &types.RunningAuction{
		AuctionData: types.AuctionData{
			AuctionIndex:      "5",
			SellToken:         "WETH",
			SellTokenDecimals: 18,
			SellTokenAddress:  testWETH.Address,
			SellVolume:        decimal.RequireFromString(sellVolume),
			BuyToken:          "RDN",
			BuyTokenDecimals:  18,
			BuyTokenAddress:   testRDN.Address,
			BuyVolume:         decimal.RequireFromString(buyVolume),
		},
		AuctionStart: testNow.Add(-time.Hour),
	}
	if price != nil {
		a.CurrentPrice = *price
	}
	return a
}

func TestAvailableVolume(t *testing.T) {
	tests := []struct {
		name       string
		sellVolume string
		buyVolume  string
		price      *types.Fraction
		want       string
	}{
		{
			name:       "half-filled-auction",
			sellVolume: "100",
			buyVolume:  "50",
			price:      frac(2, 1),
			want:       "150",
		},
		{
			name:       "nothing-bought-yet",
			sellVolume: "10",
			buyVolume:  "0",
			price:      frac(1, 2),
			want:       "5",
		},
		{
			name:       "zero-sell-volume-guard",
			sellVolume: "0",
			buyVolume:  "50",
			price:      frac(2, 1),
			want:       "0",
		},
		{
			name:       "negative-sell-volume-guard",
			sellVolume: "-1",
			buyVolume:  "50",
			price:      frac(2, 1),
			want:       "0",
		},
		{
			name:       "negative-buy-volume-guard",
			sellVolume: "100",
			buyVolume:  "-1",
			price:      frac(2, 1),
			want:       "0",
		},
		{
			name:       "undefined-price-guard",
			sellVolume: "100",
			buyVolume:  "50",
			price:      frac(1, 0),
			want:       "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := runningAuction(tt.sellVolume, tt.buyVolume, tt.price)
			got := AvailableVolume(a)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestEstimatedEndTime(t *testing.T) {
	a := runningAuction("100", "0", frac(1, 1))
	end, ok := EstimatedEndTime(a)
	require.True(t, ok)
	assert.Equal(t, a.AuctionStart.Add(6*time.Hour), end)

	a.AuctionStart = time.Time{}
	_, ok = EstimatedEndTime(a)
	assert.False(t, ok)
}

func TestIsAbovePriorClosingPrice(t *testing.T) {
	tests := []struct {
		name    string
		auction types.Auction
		want    bool
	}{
		{
			name: "running-above-threshold",
			auction: func() types.Auction {
				a := runningAuction("100", "0", frac(3, 1)) // current 3
				a.ClosingPrice = frac(2, 1)                 // threshold 2.2
				return a
			}(),
			want: true,
		},
		{
			name: "running-below-threshold",
			auction: func() types.Auction {
				a := runningAuction("100", "0", frac(21, 10)) // current 2.1
				a.ClosingPrice = frac(2, 1)                   // threshold 2.2
				return a
			}(),
			want: false,
		},
		{
			name: "running-missing-closing-price",
			auction: func() types.Auction {
				a := runningAuction("100", "0", frac(3, 1))
				return a
			}(),
			want: false,
		},
		{
			name: "running-undefined-current-price",
			auction: func() types.Auction {
				a := runningAuction("100", "0", frac(3, 0))
				a.ClosingPrice = frac(1, 1000)
				return a
			}(),
			want: false,
		},
		{
			name: "scheduled-never-above",
			auction: &types.ScheduledAuction{
				AuctionStart: testNow.Add(time.Hour),
				ClosingPrice: frac(1, 1000),
			},
			want: false,
		},
		{
			name: "ended-never-above",
			auction: &types.EndedAuction{
				AuctionEnd:   testNow,
				ClosingPrice: frac(1, 1000),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAbovePriorClosingPrice(tt.auction))
		})
	}
}

func TestSellVolumeInEth(t *testing.T) {
	priceEth := decimal.RequireFromString("0.004")
	weth := testWETH
	rdnWithPrice := testRDN
	rdnWithPrice.PriceEth = &priceEth

	lookup := staticLookup{
		weth.Address:         weth, // no ETH price
		rdnWithPrice.Address: rdnWithPrice,
	}

	a := &types.RunningAuction{
		AuctionData: types.AuctionData{
			SellToken:        "RDN",
			SellTokenAddress: rdnWithPrice.Address,
			SellVolume:       decimal.NewFromInt(1000),
		},
	}
	got := SellVolumeInEth(a, lookup)
	assert.True(t, got.Equal(decimal.NewFromInt(4)))

	// No ETH price known for the sell token.
	a.SellTokenAddress = weth.Address
	assert.True(t, SellVolumeInEth(a, lookup).IsZero())

	// Unknown token.
	a.SellTokenAddress = common.HexToAddress("0xdead")
	assert.True(t, SellVolumeInEth(a, lookup).IsZero())

	// Zero sell volume wins over everything else.
	a.SellTokenAddress = rdnWithPrice.Address
	a.SellVolume = decimal.Zero
	assert.True(t, SellVolumeInEth(a, lookup).IsZero())
}

func TestPriceRate(t *testing.T) {
	assert.Empty(t, PriceRate(decimal.Zero, "A", "B", 2))
	assert.Empty(t, PriceRate(decimal.NewFromInt(-5), "A", "B", 2))

	rate := PriceRate(decimal.NewFromInt(2), "A", "B", 2)
	assert.Contains(t, rate, "1 A = 2.00 B")
	assert.Contains(t, rate, "1 B = 0.50 A")

	rate = PriceRate(decimal.RequireFromString("0.5"), "WETH", "RDN", 6)
	assert.Contains(t, rate, "1 WETH = 0.500000 RDN")
	assert.Contains(t, rate, "1 RDN = 2.000000 WETH")
}

func TestCurrentPriceRate(t *testing.T) {
	a := runningAuction("100", "0", frac(2, 1))
	rate := CurrentPriceRate(a, 2)
	assert.Contains(t, rate, "1 WETH = 2.00 RDN")

	a.CurrentPrice = types.Fraction{}
	assert.Empty(t, CurrentPriceRate(a, 2))
}

func TestClosingPriceRate(t *testing.T) {
	a := runningAuction("100", "0", frac(2, 1))
	a.ClosingPrice = frac(1, 2)
	rate := ClosingPriceRate(a, 2)
	assert.Contains(t, rate, "1 WETH = 0.50 RDN")

	a.ClosingPrice = nil
	assert.Empty(t, ClosingPriceRate(a, 2))
}

func TestCounterCurrencyPrice(t *testing.T) {
	got := CounterCurrencyPrice(decimal.NewFromInt(4))
	assert.True(t, got.Equal(decimal.RequireFromString("0.25")))

	// Zero has no inverse and passes through.
	assert.True(t, CounterCurrencyPrice(decimal.Zero).IsZero())
}

func TestTotalClaimFound(t *testing.T) {
	balance := decimal.NewFromInt(30)

	ended := &types.EndedAuction{
		AuctionData:  types.AuctionData{BuyerBalance: &balance},
		AuctionEnd:   testNow,
		ClosingPrice: frac(3, 1),
	}
	got := TotalClaimFound(ended)
	assert.True(t, got.Equal(decimal.NewFromInt(10)))

	// Missing buyer balance.
	ended.BuyerBalance = nil
	assert.True(t, TotalClaimFound(ended).IsZero())

	// Missing closing price.
	ended.BuyerBalance = &balance
	ended.ClosingPrice = nil
	assert.True(t, TotalClaimFound(ended).IsZero())

	// Undefined closing price value.
	ended.ClosingPrice = frac(3, 0)
	assert.True(t, TotalClaimFound(ended).IsZero())
}
