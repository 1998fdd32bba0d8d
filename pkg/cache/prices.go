package cache

import (
	"time"

	"github.com/shopspring/decimal"
)

// priceKeyPrefix namespaces token price entries so they never collide with
// other registry data sharing the same cache.
const priceKeyPrefix = "price-eth:"

// PriceStore is a typed view over a Cache for ETH-denominated token unit
// prices, keyed by token address. It owns the key namespace and the
// decimal round-trip so callers never handle interface{} values.
type PriceStore struct {
	cache Cache
	ttl   time.Duration
}

// NewPriceStore wraps a cache as a price store. A nil cache yields a store
// that never hits, which keeps price lookups optional for callers.
func NewPriceStore(c Cache, ttl time.Duration) *PriceStore {
	return &PriceStore{cache: c, ttl: ttl}
}

// Get returns the cached ETH price for a token address.
func (p *PriceStore) Get(addr string) (decimal.Decimal, bool) {
	if p.cache == nil {
		return decimal.Decimal{}, false
	}
	cached, ok := p.cache.Get(priceKeyPrefix + addr)
	if !ok {
		return decimal.Decimal{}, false
	}
	price, ok := cached.(decimal.Decimal)
	if !ok {
		return decimal.Decimal{}, false
	}
	return price, true
}

// Set caches the ETH price for a token address with the store's TTL.
func (p *PriceStore) Set(addr string, price decimal.Decimal) bool {
	if p.cache == nil {
		return false
	}
	return p.cache.Set(priceKeyPrefix+addr, price, p.ttl)
}
