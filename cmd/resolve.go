package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fairdex/auction-monitor/internal/auctions"
	"github.com/fairdex/auction-monitor/internal/dx"
	"github.com/fairdex/auction-monitor/internal/registry"
	"github.com/fairdex/auction-monitor/pkg/cache"
	"github.com/fairdex/auction-monitor/pkg/config"
	"github.com/fairdex/auction-monitor/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var resolveCmd = &cobra.Command{
	Use:   "resolve SELL BUY",
	Short: "Resolve a single auction and print its state",
	Long: `Performs a one-shot resolution of the auction for the given token
pair and prints the classified state with its derived values.

Resolves the newest auction unless --index is given. With --account, the
buyer balance and unclaimed funds for that account are included.`,
	Args: cobra.ExactArgs(2),
	RunE: runResolve,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringP("index", "i", "", "Auction index to resolve (default: newest)")
	resolveCmd.Flags().StringP("account", "a", "", "Account address for buyer-scoped values")
}

func runResolve(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	accountHex, _ := cmd.Flags().GetString("account")
	if accountHex != "" && !common.IsHexAddress(accountHex) {
		return fmt.Errorf("invalid account address %q", accountHex)
	}

	client, err := dx.NewClient(ctx, dx.Config{
		RPCURL:          cfg.EthRPCURL,
		ContractAddress: common.HexToAddress(cfg.DXContractAddr),
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("create contract client: %w", err)
	}
	defer client.Close()

	priceCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: cfg.CacheNumCounters,
		MaxCost:     cfg.CacheMaxCost,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	defer priceCache.Close()

	tokens, err := registry.New(registry.Config{
		TokensFile: cfg.TokensFile,
		Prices:     client,
		Cache:      priceCache,
		PriceTTL:   cfg.PriceCacheTTL,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("load token registry: %w", err)
	}

	pair, err := tokens.Pair(args[0], args[1])
	if err != nil {
		return fmt.Errorf("look up pair: %w", err)
	}

	index, _ := cmd.Flags().GetString("index")
	if index == "" {
		index, err = client.LatestAuctionIndex(ctx, pair.Sell, pair.Buy)
		if err != nil {
			return fmt.Errorf("fetch newest auction index: %w", err)
		}
	}

	resolver := auctions.New(auctions.Config{
		Provider: client,
		Logger:   logger,
	})

	auction, err := resolver.Resolve(ctx, pair.Sell, pair.Buy, index)
	if err != nil {
		return fmt.Errorf("resolve auction: %w", err)
	}
	if auction == nil {
		fmt.Printf("No auction found for %s at index %s\n", pair.String(), index)
		return nil
	}

	tokens.RefreshPrices(ctx)

	printAuction(auction, pair, tokens)

	if accountHex != "" {
		err = printAccountValues(ctx, resolver, pair, index, common.HexToAddress(accountHex))
		if err != nil {
			return err
		}
	}

	return nil
}

func printAuction(auction types.Auction, pair types.TradingPair, tokens *registry.Registry) {
	data := auction.Data()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Pair:\t%s\n", pair.String())
	fmt.Fprintf(w, "Auction:\t#%s\n", data.AuctionIndex)
	fmt.Fprintf(w, "State:\t%s\n", auction.State())
	fmt.Fprintf(w, "Sell volume:\t%s %s\n", data.SellVolume.String(), data.SellToken)
	fmt.Fprintf(w, "Buy volume:\t%s %s\n", data.BuyVolume.String(), data.BuyToken)
	fmt.Fprintf(w, "Extra tokens:\t%s %s\n", data.ExtraTokens.String(), data.SellToken)
	fmt.Fprintf(w, "Sell volume (ETH):\t%s\n", auctions.SellVolumeInEth(auction, tokens).String())

	switch a := auction.(type) {
	case *types.ScheduledAuction:
		fmt.Fprintf(w, "Starts:\t%s\n", a.AuctionStart.Format(time.RFC3339))
	case *types.RunningAuction:
		fmt.Fprintf(w, "Started:\t%s\n", a.AuctionStart.Format(time.RFC3339))
		if end, ok := auctions.EstimatedEndTime(a); ok {
			fmt.Fprintf(w, "Estimated end:\t%s\n", end.Format(time.RFC3339))
		}
		fmt.Fprintf(w, "Price:\t%s\n", auctions.CurrentPriceRate(a, data.BuyTokenDecimals))
		fmt.Fprintf(w, "Available volume:\t%s %s\n", auctions.AvailableVolume(a).String(), data.BuyToken)
		fmt.Fprintf(w, "Above prior close:\t%v\n", auctions.IsAbovePriorClosingPrice(a))
	case *types.EndedAuction:
		if a.AuctionStart != nil {
			fmt.Fprintf(w, "Started:\t%s\n", a.AuctionStart.Format(time.RFC3339))
		}
		fmt.Fprintf(w, "Ended:\t%s\n", a.AuctionEnd.Format(time.RFC3339))
		fmt.Fprintf(w, "Closing price:\t%s\n", auctions.ClosingPriceRate(a, data.BuyTokenDecimals))
	}
}

func printAccountValues(
	ctx context.Context,
	resolver *auctions.Resolver,
	pair types.TradingPair,
	index string,
	account common.Address,
) error {
	balance, err := resolver.BuyerBalance(ctx, pair.Sell, pair.Buy, index, account)
	if err != nil {
		return fmt.Errorf("fetch buyer balance: %w", err)
	}

	unclaimed, err := resolver.UnclaimedFunds(ctx, pair.Sell, pair.Buy, index, account)
	if err != nil {
		return fmt.Errorf("fetch unclaimed funds: %w", err)
	}

	fmt.Printf("\nAccount %s\n", account.Hex())
	if balance != nil {
		fmt.Printf("  Buyer balance:   %s %s\n", balance.String(), pair.Buy.Symbol)
	}
	if unclaimed != nil {
		fmt.Printf("  Unclaimed funds: %s %s\n", unclaimed.String(), pair.Sell.Symbol)
	}

	return nil
}
