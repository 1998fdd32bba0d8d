package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/fairdex/auction-monitor/internal/auctions"
	"github.com/fairdex/auction-monitor/internal/dx"
	"github.com/fairdex/auction-monitor/internal/monitor"
	"github.com/fairdex/auction-monitor/internal/registry"
	"github.com/fairdex/auction-monitor/internal/storage"
	"github.com/fairdex/auction-monitor/pkg/cache"
	"github.com/fairdex/auction-monitor/pkg/config"
	"github.com/fairdex/auction-monitor/pkg/healthprobe"
	"github.com/fairdex/auction-monitor/pkg/httpserver"
	"github.com/fairdex/auction-monitor/pkg/types"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	priceCache, err := setupCache(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	dxClient, err := setupDXClient(ctx, cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup dx client: %w", err)
	}

	tokenRegistry, err := setupRegistry(cfg, logger, dxClient, priceCache)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup token registry: %w", err)
	}

	pairs, err := resolvePairs(cfg, tokenRegistry, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("resolve trading pairs: %w", err)
	}

	snapshotStorage, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	monitorService := setupMonitor(cfg, logger, dxClient, tokenRegistry, snapshotStorage, pairs)

	httpServer := setupHTTPServer(cfg, logger, healthChecker, monitorService)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		dxClient:      dxClient,
		tokenRegistry: tokenRegistry,
		monitor:       monitorService,
		storage:       snapshotStorage,
		priceCache:    priceCache,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupCache(cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: cfg.CacheNumCounters,
		MaxCost:     cfg.CacheMaxCost,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupDXClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*dx.Client, error) {
	if !common.IsHexAddress(cfg.DXContractAddr) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.DXContractAddr)
	}

	return dx.NewClient(ctx, dx.Config{
		RPCURL:          cfg.EthRPCURL,
		ContractAddress: common.HexToAddress(cfg.DXContractAddr),
		Logger:          logger,
	})
}

func setupRegistry(cfg *config.Config, logger *zap.Logger, dxClient *dx.Client, priceCache cache.Cache) (*registry.Registry, error) {
	return registry.New(registry.Config{
		TokensFile: cfg.TokensFile,
		Prices:     dxClient,
		Cache:      priceCache,
		PriceTTL:   cfg.PriceCacheTTL,
		Logger:     logger,
	})
}

func resolvePairs(cfg *config.Config, tokenRegistry *registry.Registry, opts *Options) ([]types.TradingPair, error) {
	labels := cfg.TokenPairs
	if len(opts.Pairs) > 0 {
		labels = opts.Pairs
	}

	pairs := make([]types.TradingPair, 0, len(labels))
	for _, label := range labels {
		sell, buy, err := splitPairLabel(label)
		if err != nil {
			return nil, err
		}

		pair, err := tokenRegistry.Pair(sell, buy)
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", label, err)
		}
		pairs = append(pairs, pair)
	}

	return pairs, nil
}

func splitPairLabel(label string) (sell, buy string, err error) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("pair label must be SELL-BUY, got %q", label)
	}
	return strings.ToUpper(parts[0]), strings.ToUpper(parts[1]), nil
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (monitor.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupMonitor(
	cfg *config.Config,
	logger *zap.Logger,
	dxClient *dx.Client,
	tokenRegistry *registry.Registry,
	snapshotStorage monitor.Storage,
	pairs []types.TradingPair,
) *monitor.Service {
	resolver := auctions.New(auctions.Config{
		Provider: dxClient,
		Logger:   logger,
	})

	return monitor.New(&monitor.Config{
		Resolver:     resolver,
		Provider:     dxClient,
		Tokens:       tokenRegistry,
		Storage:      snapshotStorage,
		Pairs:        pairs,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	monitorService *monitor.Service,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Monitor:       monitorService,
	})
}
