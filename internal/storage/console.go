package storage

import (
	"context"
	"fmt"

	"github.com/fairdex/auction-monitor/internal/auctions"
	"github.com/fairdex/auction-monitor/internal/monitor"
	"github.com/fairdex/auction-monitor/pkg/numeric"
	"github.com/fairdex/auction-monitor/pkg/types"
	"go.uber.org/zap"
)

// ConsoleStorage implements Storage by pretty-printing to console.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreSnapshot pretty-prints an auction snapshot to console.
func (c *ConsoleStorage) StoreSnapshot(ctx context.Context, snapshot *monitor.Snapshot) error {
	data := snapshot.Auction.Data()

	fmt.Println("\n" + "────────────────────────────────────────────────────────────")
	fmt.Printf("AUCTION %s  #%s  [%s]\n", snapshot.Pair.String(), data.AuctionIndex, snapshot.Auction.State())
	fmt.Println("────────────────────────────────────────────────────────────")
	fmt.Printf("Sell volume:  %s %s\n", data.SellVolume.String(), data.SellToken)
	fmt.Printf("Buy volume:   %s %s\n", data.BuyVolume.String(), data.BuyToken)
	fmt.Printf("Extra tokens: %s %s\n", data.ExtraTokens.String(), data.SellToken)
	if snapshot.SellVolumeEth.IsPositive() {
		fmt.Printf("Sell volume in ETH: %s\n", numeric.Format(snapshot.SellVolumeEth, numeric.DefaultDisplayDecimals))
	}

	switch a := snapshot.Auction.(type) {
	case *types.ScheduledAuction:
		fmt.Printf("Starts at: %s\n", a.AuctionStart.Format("2006-01-02 15:04:05"))
	case *types.RunningAuction:
		fmt.Printf("Started at: %s\n", a.AuctionStart.Format("2006-01-02 15:04:05"))
		if end, ok := auctions.EstimatedEndTime(a); ok {
			fmt.Printf("Estimated end: %s\n", end.Format("2006-01-02 15:04:05"))
		}
		if rate := auctions.CurrentPriceRate(a, numeric.DefaultDisplayDecimals); rate != "" {
			fmt.Println(rate)
		}
	case *types.EndedAuction:
		fmt.Printf("Ended at: %s\n", a.AuctionEnd.Format("2006-01-02 15:04:05"))
		if rate := auctions.ClosingPriceRate(a, numeric.DefaultDisplayDecimals); rate != "" {
			fmt.Println(rate)
		}
	}
	fmt.Println("────────────────────────────────────────────────────────────")

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
