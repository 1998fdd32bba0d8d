package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/fairdex/auction-monitor/internal/auctions"
	"github.com/fairdex/auction-monitor/internal/monitor"
	"github.com/fairdex/auction-monitor/pkg/types"
	"go.uber.org/zap"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// StoreSnapshot inserts an auction snapshot row.
func (p *PostgresStorage) StoreSnapshot(ctx context.Context, snapshot *monitor.Snapshot) error {
	data := snapshot.Auction.Data()

	var (
		auctionStart *time.Time
		auctionEnd   *time.Time
		currentPrice *string
		closingPrice *string
	)

	switch a := snapshot.Auction.(type) {
	case *types.ScheduledAuction:
		auctionStart = &a.AuctionStart
	case *types.RunningAuction:
		auctionStart = &a.AuctionStart
		if value, ok := a.CurrentPrice.Value(); ok {
			s := value.String()
			currentPrice = &s
		}
	case *types.EndedAuction:
		auctionStart = a.AuctionStart
		auctionEnd = &a.AuctionEnd
	}

	if cp := auctions.ClosingPriceOf(snapshot.Auction); cp != nil {
		if value, ok := cp.Value(); ok {
			s := value.String()
			closingPrice = &s
		}
	}

	query := `
		INSERT INTO auction_snapshots (
			id, pair, sell_token, buy_token, auction_index, state,
			sell_volume, buy_volume, extra_tokens, sell_volume_eth,
			current_price, closing_price, auction_start, auction_end,
			observed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.Pair.String(),
		data.SellToken,
		data.BuyToken,
		data.AuctionIndex,
		string(snapshot.Auction.State()),
		data.SellVolume.String(),
		data.BuyVolume.String(),
		data.ExtraTokens.String(),
		snapshot.SellVolumeEth.String(),
		currentPrice,
		closingPrice,
		auctionStart,
		auctionEnd,
		snapshot.ObservedAt,
	)

	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	p.logger.Debug("snapshot-stored",
		zap.String("snapshot-id", snapshot.ID),
		zap.String("pair", snapshot.Pair.String()),
		zap.String("state", string(snapshot.Auction.State())))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
