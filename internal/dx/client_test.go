package dx

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReaderABIParses(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(readerABI))
	require.NoError(t, err)

	for _, method := range []string{
		"getAuctionStart",
		"getAuctionIndex",
		"sellVolumesCurrent",
		"buyVolumes",
		"getBidVolume",
		"extraTokens",
		"getCurrentAuctionPrice",
		"closingPrices",
		"getEndedAuctionStart",
		"getAuctionEnd",
		"buyerBalances",
		"getUnclaimedBuyerFunds",
		"getPriceOfTokenInLastAuction",
	} {
		_, ok := parsed.Methods[method]
		assert.True(t, ok, "method %s missing from ABI", method)
	}
}

func TestNewClientEmptyRPCURL(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Logger: zap.NewNop()})
	assert.Error(t, err)
}

func TestUnixOrNil(t *testing.T) {
	assert.Nil(t, unixOrNil(big.NewInt(0)))
	// Waiting-for-funding sentinel is not a start time.
	assert.Nil(t, unixOrNil(big.NewInt(1)))

	got := unixOrNil(big.NewInt(1700000000))
	require.NotNil(t, got)
	assert.Equal(t, int64(1700000000), got.Unix())
}

func TestAmountPtr(t *testing.T) {
	wei, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)

	got := amountPtr(wei, 18)
	require.NotNil(t, got)
	assert.Equal(t, "1.5", got.String())
}

func TestParseIndex(t *testing.T) {
	index, err := parseIndex("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), index.Int64())

	_, err = parseIndex("not-a-number")
	assert.Error(t, err)
}
