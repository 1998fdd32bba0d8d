package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fairdex/auction-monitor/internal/monitor"
	"github.com/fairdex/auction-monitor/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSnapshot() *monitor.Snapshot {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	auction := &types.RunningAuction{
		AuctionData: types.AuctionData{
			AuctionIndex:     "7",
			SellToken:        "WETH",
			SellTokenAddress: common.HexToAddress("0x1111"),
			SellVolume:       decimal.NewFromInt(100),
			BuyToken:         "RDN",
			BuyTokenAddress:  common.HexToAddress("0x2222"),
			BuyVolume:        decimal.NewFromInt(50),
		},
		AuctionStart: start,
		CurrentPrice: types.Fraction{Numerator: decimal.NewFromInt(2), Denominator: decimal.NewFromInt(1)},
	}

	return &monitor.Snapshot{
		ID:            "11111111-2222-3333-4444-555555555555",
		Pair:          types.TradingPair{Sell: types.Token{Symbol: "WETH"}, Buy: types.Token{Symbol: "RDN"}},
		AuctionIndex:  "7",
		Auction:       auction,
		SellVolumeEth: decimal.NewFromInt(100),
		ObservedAt:    start.Add(time.Hour),
	}
}

func TestPostgresStoreSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storage := &PostgresStorage{db: db, logger: zap.NewNop()}
	snapshot := testSnapshot()

	mock.ExpectExec("INSERT INTO auction_snapshots").
		WithArgs(
			snapshot.ID,
			"WETH-RDN",
			"WETH",
			"RDN",
			"7",
			"running",
			"100",
			"50",
			"0",
			"100",
			sqlmock.AnyArg(), // current price
			sqlmock.AnyArg(), // closing price
			sqlmock.AnyArg(), // auction start
			sqlmock.AnyArg(), // auction end
			snapshot.ObservedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = storage.StoreSnapshot(context.Background(), snapshot)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSnapshotError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storage := &PostgresStorage{db: db, logger: zap.NewNop()}

	mock.ExpectExec("INSERT INTO auction_snapshots").
		WillReturnError(io.ErrUnexpectedEOF)

	err = storage.StoreSnapshot(context.Background(), testSnapshot())
	assert.Error(t, err)
}

func TestConsoleStoreSnapshot(t *testing.T) {
	storage := NewConsoleStorage(zap.NewNop())

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	err = storage.StoreSnapshot(context.Background(), testSnapshot())

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	require.NoError(t, err)
	assert.Contains(t, output, "WETH-RDN")
	assert.Contains(t, output, "running")
	assert.Contains(t, output, "Sell volume:  100 WETH")
}

func TestConsoleClose(t *testing.T) {
	storage := NewConsoleStorage(zap.NewNop())
	assert.NoError(t, storage.Close())
}
