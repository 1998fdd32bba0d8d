// Package registry holds the set of tradeable tokens the monitor knows
// about: immutable token metadata loaded from a JSON file plus an
// ETH-denominated unit price per token, fetched from the exchange contract
// and cached with a TTL.
package registry

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fairdex/auction-monitor/pkg/cache"
	"github.com/fairdex/auction-monitor/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceSource provides ETH unit prices for tokens. Implemented by the dx
// client via the contract's last-auction price query.
type PriceSource interface {
	TokenPriceEth(ctx context.Context, token types.Token) (*decimal.Decimal, error)
}

// Registry is the token lookup used for pair configuration and for valuing
// sell volumes in ETH.
type Registry struct {
	prices     PriceSource
	priceStore *cache.PriceStore
	logger     *zap.Logger

	mu       sync.RWMutex
	byAddr   map[common.Address]types.Token
	bySymbol map[string]common.Address
}

// Config holds registry configuration.
type Config struct {
	TokensFile string
	Prices     PriceSource
	Cache      cache.Cache
	PriceTTL   time.Duration
	Logger     *zap.Logger
}

// tokenDefinition is the on-disk token entry format.
type tokenDefinition struct {
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
	Address  string `json:"address"`
}

// New loads token definitions from the configured file.
func New(cfg Config) (*Registry, error) {
	data, err := os.ReadFile(cfg.TokensFile)
	if err != nil {
		return nil, fmt.Errorf("read tokens file: %w", err)
	}

	var definitions []tokenDefinition
	err = json.Unmarshal(data, &definitions)
	if err != nil {
		return nil, fmt.Errorf("parse tokens file: %w", err)
	}

	r := &Registry{
		prices:     cfg.Prices,
		priceStore: cache.NewPriceStore(cfg.Cache, cfg.PriceTTL),
		logger:     cfg.Logger,
		byAddr:     make(map[common.Address]types.Token, len(definitions)),
		bySymbol:   make(map[string]common.Address, len(definitions)),
	}

	for _, def := range definitions {
		if def.Symbol == "" || !common.IsHexAddress(def.Address) {
			return nil, fmt.Errorf("invalid token definition %q / %q", def.Symbol, def.Address)
		}
		addr := common.HexToAddress(def.Address)
		r.byAddr[addr] = types.Token{
			Symbol:   def.Symbol,
			Decimals: def.Decimals,
			Address:  addr,
		}
		r.bySymbol[def.Symbol] = addr
	}

	cfg.Logger.Info("token-registry-loaded",
		zap.Int("token-count", len(r.byAddr)),
		zap.String("file", cfg.TokensFile))

	return r, nil
}

// TokenByAddress returns the token for an address, with its cached ETH
// price attached when one is known.
func (r *Registry) TokenByAddress(addr common.Address) (types.Token, bool) {
	r.mu.RLock()
	token, ok := r.byAddr[addr]
	r.mu.RUnlock()
	if !ok {
		return types.Token{}, false
	}

	if price, found := r.priceStore.Get(addr.Hex()); found {
		token.PriceEth = &price
	}
	return token, true
}

// TokenBySymbol returns the token registered under the symbol.
func (r *Registry) TokenBySymbol(symbol string) (types.Token, bool) {
	r.mu.RLock()
	addr, ok := r.bySymbol[symbol]
	r.mu.RUnlock()
	if !ok {
		return types.Token{}, false
	}
	return r.TokenByAddress(addr)
}

// Pair builds a trading pair from two registered symbols.
func (r *Registry) Pair(sellSymbol, buySymbol string) (types.TradingPair, error) {
	sell, ok := r.TokenBySymbol(sellSymbol)
	if !ok {
		return types.TradingPair{}, fmt.Errorf("%w: %s", types.ErrUnknownToken, sellSymbol)
	}
	buy, ok := r.TokenBySymbol(buySymbol)
	if !ok {
		return types.TradingPair{}, fmt.Errorf("%w: %s", types.ErrUnknownToken, buySymbol)
	}
	return types.TradingPair{Sell: sell, Buy: buy}, nil
}

// Tokens returns a snapshot of all registered tokens with cached prices
// attached.
func (r *Registry) Tokens() []types.Token {
	r.mu.RLock()
	addrs := make([]common.Address, 0, len(r.byAddr))
	for addr := range r.byAddr {
		addrs = append(addrs, addr)
	}
	r.mu.RUnlock()

	tokens := make([]types.Token, 0, len(addrs))
	for _, addr := range addrs {
		if token, ok := r.TokenByAddress(addr); ok {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// RefreshPrices fetches the ETH price of every registered token from the
// price source and caches the results. Individual fetch failures are
// logged and skipped so one bad feed does not stall the rest.
func (r *Registry) RefreshPrices(ctx context.Context) {
	for _, token := range r.Tokens() {
		price, err := r.prices.TokenPriceEth(ctx, token)
		if err != nil {
			r.logger.Warn("token-price-fetch-failed",
				zap.String("symbol", token.Symbol),
				zap.Error(err))
			continue
		}
		if price == nil {
			continue
		}

		r.priceStore.Set(token.Address.Hex(), *price)
	}
}
