package monitor

import (
	"time"

	"github.com/fairdex/auction-monitor/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is one observed auction state for a trading pair. Snapshots are
// immutable once built; a new one is produced per observation.
type Snapshot struct {
	ID            string
	Pair          types.TradingPair
	AuctionIndex  string
	Auction       types.Auction
	SellVolumeEth decimal.Decimal
	ObservedAt    time.Time
}

// NewSnapshot builds a snapshot for a resolved auction.
func NewSnapshot(pair types.TradingPair, auction types.Auction, sellVolumeEth decimal.Decimal, observedAt time.Time) *Snapshot {
	return &Snapshot{
		ID:            uuid.New().String(),
		Pair:          pair,
		AuctionIndex:  auction.Data().AuctionIndex,
		Auction:       auction,
		SellVolumeEth: sellVolumeEth,
		ObservedAt:    observedAt,
	}
}

// Key returns the composite auction identity the snapshot observes.
func (s *Snapshot) Key() string {
	return s.Auction.Data().Key()
}
