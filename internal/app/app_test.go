package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fairdex/auction-monitor/pkg/config"
)

func writeTokensFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tokens.json")
	content := `[
		{"symbol": "WETH", "decimals": 18, "address": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"},
		{"symbol": "RDN", "decimals": 18, "address": "0x255Aa6DF07540Cb5d3d297f0D0D4D84cb52bc8e6"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		LogLevel:         "info",
		HTTPPort:         "0",
		EthRPCURL:        "http://localhost:8545",
		DXContractAddr:   "0xb9812E2fA995EC53B5b6DF34d21f9304762C5497",
		TokensFile:       writeTokensFile(t),
		TokenPairs:       []string{"WETH-RDN"},
		PollInterval:     time.Second,
		PriceCacheTTL:    time.Minute,
		CacheNumCounters: 1000,
		CacheMaxCost:     100,
		StorageMode:      "console",
	}
}

func TestNew_WiresComponents(t *testing.T) {
	a, err := New(testConfig(t), zap.NewNop(), nil)
	require.NoError(t, err)

	assert.NotNil(t, a.httpServer)
	assert.NotNil(t, a.dxClient)
	assert.NotNil(t, a.tokenRegistry)
	assert.NotNil(t, a.monitor)
	assert.NotNil(t, a.storage)

	require.NoError(t, a.Shutdown())
}

func readyStatus(a *App) int {
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	a.healthChecker.Ready()(w, req)
	return w.Code
}

func TestReadinessFlipsAfterFirstPoll(t *testing.T) {
	a, err := New(testConfig(t), zap.NewNop(), nil)
	require.NoError(t, err)

	// Not ready until the monitor has completed a poll cycle
	assert.Equal(t, http.StatusServiceUnavailable, readyStatus(a))

	a.wg.Add(2)
	go a.runMonitor()
	go a.markReadyAfterFirstPoll()

	// The first cycle fails against the unreachable RPC endpoint but still
	// completes, which is what readiness reports
	require.Eventually(t, func() bool {
		return readyStatus(a) == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, a.Shutdown())
}

func TestReadinessNotSetWhenCancelledBeforeFirstPoll(t *testing.T) {
	a, err := New(testConfig(t), zap.NewNop(), nil)
	require.NoError(t, err)

	a.cancel()
	a.wg.Add(1)
	a.markReadyAfterFirstPoll()

	assert.Equal(t, http.StatusServiceUnavailable, readyStatus(a))
	require.NoError(t, a.Shutdown())
}

func TestNew_UnknownPairRejected(t *testing.T) {
	cfg := testConfig(t)
	cfg.TokenPairs = []string{"WETH-OMG"}

	_, err := New(cfg, zap.NewNop(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WETH-OMG")
}

func TestNew_PairOverride(t *testing.T) {
	cfg := testConfig(t)
	cfg.TokenPairs = []string{"WETH-OMG"}

	// The override replaces the misconfigured pair entirely
	a, err := New(cfg, zap.NewNop(), &Options{Pairs: []string{"weth-rdn"}})
	require.NoError(t, err)
	require.NoError(t, a.Shutdown())
}

func TestNew_InvalidContractAddress(t *testing.T) {
	cfg := testConfig(t)
	cfg.DXContractAddr = "not-an-address"

	_, err := New(cfg, zap.NewNop(), nil)
	require.Error(t, err)
}

func TestSplitPairLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		wantSell string
		wantBuy  string
		wantErr  bool
	}{
		{
			name:     "valid",
			label:    "WETH-RDN",
			wantSell: "WETH",
			wantBuy:  "RDN",
		},
		{
			name:     "lowercased",
			label:    "weth-rdn",
			wantSell: "WETH",
			wantBuy:  "RDN",
		},
		{
			name:    "missing_separator",
			label:   "WETHRDN",
			wantErr: true,
		},
		{
			name:    "empty_side",
			label:   "WETH-",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sell, buy, err := splitPairLabel(tt.label)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSell, sell)
			assert.Equal(t, tt.wantBuy, buy)
		})
	}
}
