// Package monitor polls the exchange for the configured trading pairs,
// resolves each pair's newest auction and tracks state transitions. Every
// transition is persisted and published to subscribers; the latest snapshot
// per pair is kept in memory for the HTTP API.
package monitor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fairdex/auction-monitor/internal/auctions"
	"github.com/fairdex/auction-monitor/pkg/types"
	"go.uber.org/zap"
)

// Storage persists auction snapshots.
type Storage interface {
	StoreSnapshot(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// TokenSource provides token lookups and price refreshes. Implemented by
// the token registry.
type TokenSource interface {
	auctions.TokenLookup
	RefreshPrices(ctx context.Context)
}

// Service is the auction polling loop.
type Service struct {
	resolver     *auctions.Resolver
	provider     auctions.Provider
	tokens       TokenSource
	storage      Storage
	pairs        []types.TradingPair
	pollInterval time.Duration
	logger       *zap.Logger

	mu      sync.RWMutex
	current map[string]*Snapshot

	updatesCh chan *Snapshot

	firstPollOnce sync.Once
	firstPollDone chan struct{}
}

// Config holds monitor configuration.
type Config struct {
	Resolver     *auctions.Resolver
	Provider     auctions.Provider
	Tokens       TokenSource
	Storage      Storage
	Pairs        []types.TradingPair
	PollInterval time.Duration
	Logger       *zap.Logger
}

// New creates a new monitor service.
func New(cfg *Config) *Service {
	return &Service{
		resolver:      cfg.Resolver,
		provider:      cfg.Provider,
		tokens:        cfg.Tokens,
		storage:       cfg.Storage,
		pairs:         cfg.Pairs,
		pollInterval:  cfg.PollInterval,
		logger:        cfg.Logger,
		current:       make(map[string]*Snapshot),
		updatesCh:     make(chan *Snapshot, 100),
		firstPollDone: make(chan struct{}),
	}
}

// UpdatesChan returns the channel snapshots are published on when an
// auction changes state or rolls over to a new index.
func (s *Service) UpdatesChan() <-chan *Snapshot {
	return s.updatesCh
}

// FirstPollDone is closed once the initial poll cycle has completed,
// successfully or not. Readiness probes key off it.
func (s *Service) FirstPollDone() <-chan struct{} {
	return s.firstPollDone
}

// Run starts the polling loop and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("monitor-starting",
		zap.Duration("poll-interval", s.pollInterval),
		zap.Int("pair-count", len(s.pairs)))

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("monitor-stopping")
			close(s.updatesCh)
			return ctx.Err()
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *Service) poll(ctx context.Context) {
	start := time.Now()
	defer func() {
		PollDurationSeconds.Observe(time.Since(start).Seconds())
	}()
	PollsTotal.Inc()

	s.tokens.RefreshPrices(ctx)

	for _, pair := range s.pairs {
		err := s.pollPair(ctx, pair)
		if err != nil {
			PollErrorsTotal.Inc()
			s.logger.Error("pair-poll-failed",
				zap.String("pair", pair.String()),
				zap.Error(err))
		}
	}

	s.mu.RLock()
	ActiveAuctions.Set(float64(len(s.current)))
	s.mu.RUnlock()

	s.firstPollOnce.Do(func() {
		close(s.firstPollDone)
	})
}

func (s *Service) pollPair(ctx context.Context, pair types.TradingPair) error {
	auctionIndex, err := s.provider.LatestAuctionIndex(ctx, pair.Sell, pair.Buy)
	if err != nil {
		return fmt.Errorf("latest auction index: %w", err)
	}

	auction, err := s.resolver.Resolve(ctx, pair.Sell, pair.Buy, auctionIndex)
	if err != nil {
		return fmt.Errorf("resolve auction %s: %w", auctionIndex, err)
	}
	if auction == nil {
		// Insufficient provider data; the previous snapshot stays
		// current until the next poll.
		s.logger.Debug("auction-not-resolvable",
			zap.String("pair", pair.String()),
			zap.String("auction-index", auctionIndex))
		return nil
	}

	snapshot := NewSnapshot(pair, auction, auctions.SellVolumeInEth(auction, s.tokens), time.Now())

	s.mu.Lock()
	previous := s.current[pair.String()]
	changed := previous == nil ||
		previous.Key() != snapshot.Key() ||
		previous.Auction.State() != auction.State()
	s.current[pair.String()] = snapshot
	s.mu.Unlock()

	if !changed {
		return nil
	}

	StateTransitionsTotal.WithLabelValues(string(auction.State())).Inc()
	s.logger.Info("auction-state-observed",
		zap.String("pair", pair.String()),
		zap.String("auction-index", auctionIndex),
		zap.String("state", string(auction.State())))

	err = s.storage.StoreSnapshot(ctx, snapshot)
	if err != nil {
		s.logger.Error("snapshot-store-failed",
			zap.String("pair", pair.String()),
			zap.Error(err))
	}

	select {
	case s.updatesCh <- snapshot:
	default:
		s.logger.Warn("updates-channel-full",
			zap.String("pair", pair.String()))
	}

	return nil
}

// Snapshots returns the latest snapshot per pair, sorted by the sell
// volume's ETH value descending so the most liquid auctions list first.
func (s *Service) Snapshots() []*Snapshot {
	s.mu.RLock()
	snapshots := make([]*Snapshot, 0, len(s.current))
	for _, snapshot := range s.current {
		snapshots = append(snapshots, snapshot)
	}
	s.mu.RUnlock()

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].SellVolumeEth.GreaterThan(snapshots[j].SellVolumeEth)
	})

	return snapshots
}

// Snapshot returns the latest snapshot for a pair label (e.g. "WETH-RDN").
func (s *Service) Snapshot(pairLabel string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.current[pairLabel]
	return snapshot, ok
}
