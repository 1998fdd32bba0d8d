// Package dx reads auction facts from the DutchX exchange contract over
// JSON-RPC. It implements the auctions.Provider interface: each method is a
// single eth_call, raw uint256 amounts are converted to human-readable
// decimals using the token's decimal-place count, and contract sentinel
// values are mapped to nil so callers can tell absence from zero.
package dx

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/fairdex/auction-monitor/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// readerABI is the query surface of the DutchX reader contract.
const readerABI = `[
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"}],"name":"getAuctionStart","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"}],"name":"getAuctionIndex","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"}],"name":"sellVolumesCurrent","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"}],"name":"buyVolumes","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"},{"name":"auctionIndex","type":"uint256"}],"name":"getBidVolume","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"},{"name":"auctionIndex","type":"uint256"}],"name":"extraTokens","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"},{"name":"auctionIndex","type":"uint256"}],"name":"getCurrentAuctionPrice","outputs":[{"name":"num","type":"uint256"},{"name":"den","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"},{"name":"auctionIndex","type":"uint256"}],"name":"closingPrices","outputs":[{"name":"num","type":"uint256"},{"name":"den","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"},{"name":"auctionIndex","type":"uint256"}],"name":"getEndedAuctionStart","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"},{"name":"auctionIndex","type":"uint256"}],"name":"getAuctionEnd","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"},{"name":"auctionIndex","type":"uint256"},{"name":"user","type":"address"}],"name":"buyerBalances","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"sellToken","type":"address"},{"name":"buyToken","type":"address"},{"name":"user","type":"address"},{"name":"auctionIndex","type":"uint256"}],"name":"getUnclaimedBuyerFunds","outputs":[{"name":"unclaimedBuyerFunds","type":"uint256"},{"name":"frtsIssued","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"token","type":"address"}],"name":"getPriceOfTokenInLastAuction","outputs":[{"name":"num","type":"uint256"},{"name":"den","type":"uint256"}],"type":"function"}
]`

// auctionStartWaitingForFunding is the contract sentinel stored in
// auctionStart while the pair has not reached its funding threshold. Both 0
// and the sentinel mean no start time is recorded.
var auctionStartWaitingForFunding = big.NewInt(1)

// Client queries the DutchX contract over JSON-RPC.
type Client struct {
	eth      *ethclient.Client
	contract common.Address
	abi      abi.ABI
	logger   *zap.Logger
}

// Config holds client configuration.
type Config struct {
	RPCURL          string
	ContractAddress common.Address
	Logger          *zap.Logger
}

// NewClient dials the RPC endpoint and returns a contract client. Queries
// carry no retry logic: transport failures propagate to the caller.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url cannot be empty")
	}

	parsedABI, err := abi.JSON(strings.NewReader(readerABI))
	if err != nil {
		return nil, fmt.Errorf("parse ABI: %w", err)
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial RPC: %w", err)
	}

	cfg.Logger.Info("dx-client-connected",
		zap.String("contract", cfg.ContractAddress.Hex()))

	return &Client{
		eth:      eth,
		contract: cfg.ContractAddress,
		abi:      parsedABI,
		logger:   cfg.Logger,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) call(ctx context.Context, pair string, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, &types.ProviderError{Method: method, Pair: pair, Err: fmt.Errorf("pack: %w", err)}
	}

	msg := ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}

	out, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, &types.ProviderError{Method: method, Pair: pair, Err: err}
	}

	results, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, &types.ProviderError{Method: method, Pair: pair, Err: fmt.Errorf("unpack: %w", err)}
	}

	return results, nil
}

func (c *Client) callUint(ctx context.Context, pair string, method string, args ...interface{}) (*big.Int, error) {
	results, err := c.call(ctx, pair, method, args...)
	if err != nil {
		return nil, err
	}
	value, ok := results[0].(*big.Int)
	if !ok {
		return nil, &types.ProviderError{Method: method, Pair: pair, Err: fmt.Errorf("unexpected output type %T", results[0])}
	}
	return value, nil
}

func (c *Client) callFraction(ctx context.Context, pair string, method string, args ...interface{}) (*types.Fraction, error) {
	results, err := c.call(ctx, pair, method, args...)
	if err != nil {
		return nil, err
	}

	num, okNum := results[0].(*big.Int)
	den, okDen := results[1].(*big.Int)
	if !okNum || !okDen {
		return nil, &types.ProviderError{Method: method, Pair: pair, Err: fmt.Errorf("unexpected fraction output")}
	}

	return &types.Fraction{
		Numerator:   decimal.NewFromBigInt(num, 0),
		Denominator: decimal.NewFromBigInt(den, 0),
	}, nil
}

// AuctionStart returns the recorded auction start, or nil when the contract
// holds zero or the waiting-for-funding sentinel.
func (c *Client) AuctionStart(ctx context.Context, sell, buy types.Token) (*time.Time, error) {
	raw, err := c.callUint(ctx, pairLabel(sell, buy), "getAuctionStart", sell.Address, buy.Address)
	if err != nil {
		return nil, err
	}
	return unixOrNil(raw), nil
}

// SellVolume returns the current sell volume as a human-readable amount.
func (c *Client) SellVolume(ctx context.Context, sell, buy types.Token) (*decimal.Decimal, error) {
	raw, err := c.callUint(ctx, pairLabel(sell, buy), "sellVolumesCurrent", sell.Address, buy.Address)
	if err != nil {
		return nil, err
	}
	return amountPtr(raw, sell.Decimals), nil
}

// BuyVolume returns the current buy volume as a human-readable amount.
func (c *Client) BuyVolume(ctx context.Context, sell, buy types.Token) (*decimal.Decimal, error) {
	raw, err := c.callUint(ctx, pairLabel(sell, buy), "buyVolumes", sell.Address, buy.Address)
	if err != nil {
		return nil, err
	}
	return amountPtr(raw, buy.Decimals), nil
}

// BidVolume returns the final bid volume recorded for the auction index.
func (c *Client) BidVolume(ctx context.Context, sell, buy types.Token, auctionIndex string) (*decimal.Decimal, error) {
	index, err := parseIndex(auctionIndex)
	if err != nil {
		return nil, err
	}
	raw, err := c.callUint(ctx, pairLabel(sell, buy), "getBidVolume", sell.Address, buy.Address, index)
	if err != nil {
		return nil, err
	}
	return amountPtr(raw, buy.Decimals), nil
}

// ExtraTokens returns the extra sell-token balance added to the auction.
func (c *Client) ExtraTokens(ctx context.Context, sell, buy types.Token, auctionIndex string) (*decimal.Decimal, error) {
	index, err := parseIndex(auctionIndex)
	if err != nil {
		return nil, err
	}
	raw, err := c.callUint(ctx, pairLabel(sell, buy), "extraTokens", sell.Address, buy.Address, index)
	if err != nil {
		return nil, err
	}
	return amountPtr(raw, sell.Decimals), nil
}

// CurrentPrice returns the live price ratio, nil while the auction has no
// price yet (the contract reports a zero denominator).
func (c *Client) CurrentPrice(ctx context.Context, sell, buy types.Token, auctionIndex string) (*types.Fraction, error) {
	index, err := parseIndex(auctionIndex)
	if err != nil {
		return nil, err
	}
	fraction, err := c.callFraction(ctx, pairLabel(sell, buy), "getCurrentAuctionPrice", sell.Address, buy.Address, index)
	if err != nil {
		return nil, err
	}
	if !fraction.Defined() {
		return nil, nil
	}
	return fraction, nil
}

// ClosingPrice returns the recorded closing price ratio for the index. The
// fraction is returned even when still undefined (0/0) so callers can use
// definedness as the closure signal.
func (c *Client) ClosingPrice(ctx context.Context, sell, buy types.Token, auctionIndex string) (*types.Fraction, error) {
	index, err := parseIndex(auctionIndex)
	if err != nil {
		return nil, err
	}
	return c.callFraction(ctx, pairLabel(sell, buy), "closingPrices", sell.Address, buy.Address, index)
}

// PreviousClosingPrice returns the closing price of the auction preceding
// the given index, nil for the first auction of a pair.
func (c *Client) PreviousClosingPrice(ctx context.Context, sell, buy types.Token, auctionIndex string) (*types.Fraction, error) {
	index, err := parseIndex(auctionIndex)
	if err != nil {
		return nil, err
	}
	if index.Sign() <= 0 {
		return nil, nil
	}
	previous := new(big.Int).Sub(index, big.NewInt(1))
	return c.callFraction(ctx, pairLabel(sell, buy), "closingPrices", sell.Address, buy.Address, previous)
}

// EndedAuctionStart returns the start time of the ended auction instance.
func (c *Client) EndedAuctionStart(ctx context.Context, sell, buy types.Token, auctionIndex string) (*time.Time, error) {
	index, err := parseIndex(auctionIndex)
	if err != nil {
		return nil, err
	}
	raw, err := c.callUint(ctx, pairLabel(sell, buy), "getEndedAuctionStart", sell.Address, buy.Address, index)
	if err != nil {
		return nil, err
	}
	return unixOrNil(raw), nil
}

// AuctionEnd returns the end time of the auction, nil while it is open.
func (c *Client) AuctionEnd(ctx context.Context, sell, buy types.Token, auctionIndex string) (*time.Time, error) {
	index, err := parseIndex(auctionIndex)
	if err != nil {
		return nil, err
	}
	raw, err := c.callUint(ctx, pairLabel(sell, buy), "getAuctionEnd", sell.Address, buy.Address, index)
	if err != nil {
		return nil, err
	}
	return unixOrNil(raw), nil
}

// UnclaimedFunds returns the account's unclaimed buyer funds in the auction
// as a sell-token amount.
func (c *Client) UnclaimedFunds(ctx context.Context, sell, buy types.Token, auctionIndex string, account common.Address) (*decimal.Decimal, error) {
	index, err := parseIndex(auctionIndex)
	if err != nil {
		return nil, err
	}
	results, err := c.call(ctx, pairLabel(sell, buy), "getUnclaimedBuyerFunds", sell.Address, buy.Address, account, index)
	if err != nil {
		return nil, err
	}
	raw, ok := results[0].(*big.Int)
	if !ok {
		return nil, &types.ProviderError{Method: "getUnclaimedBuyerFunds", Pair: pairLabel(sell, buy), Err: fmt.Errorf("unexpected output type %T", results[0])}
	}
	return amountPtr(raw, sell.Decimals), nil
}

// BuyerBalance returns the account's bid balance as a buy-token amount.
func (c *Client) BuyerBalance(ctx context.Context, sell, buy types.Token, auctionIndex string, account common.Address) (*decimal.Decimal, error) {
	index, err := parseIndex(auctionIndex)
	if err != nil {
		return nil, err
	}
	raw, err := c.callUint(ctx, pairLabel(sell, buy), "buyerBalances", sell.Address, buy.Address, index, account)
	if err != nil {
		return nil, err
	}
	return amountPtr(raw, buy.Decimals), nil
}

// LatestAuctionIndex returns the index of the newest auction for the pair.
func (c *Client) LatestAuctionIndex(ctx context.Context, sell, buy types.Token) (string, error) {
	raw, err := c.callUint(ctx, pairLabel(sell, buy), "getAuctionIndex", sell.Address, buy.Address)
	if err != nil {
		return "", err
	}
	return raw.String(), nil
}

// TokenPriceEth returns the token's ETH unit price from its last auction,
// nil when the contract has no price for it yet.
func (c *Client) TokenPriceEth(ctx context.Context, token types.Token) (*decimal.Decimal, error) {
	fraction, err := c.callFraction(ctx, token.Symbol, "getPriceOfTokenInLastAuction", token.Address)
	if err != nil {
		return nil, err
	}
	value, ok := fraction.Value()
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func pairLabel(sell, buy types.Token) string {
	return sell.Symbol + "-" + buy.Symbol
}

func parseIndex(auctionIndex string) (*big.Int, error) {
	index, ok := new(big.Int).SetString(auctionIndex, 10)
	if !ok {
		return nil, fmt.Errorf("invalid auction index %q", auctionIndex)
	}
	return index, nil
}

// unixOrNil maps a contract timestamp to a time, treating zero and the
// waiting-for-funding sentinel as absent.
func unixOrNil(raw *big.Int) *time.Time {
	if raw.Sign() == 0 || raw.Cmp(auctionStartWaitingForFunding) == 0 {
		return nil
	}
	t := time.Unix(raw.Int64(), 0).UTC()
	return &t
}

// amountPtr converts a raw atomic amount to a human-readable decimal.
func amountPtr(raw *big.Int, decimals int32) *decimal.Decimal {
	d := decimal.NewFromBigInt(raw, -decimals)
	return &d
}
