package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestPriceStore(t *testing.T) {
	backing, err := NewRistrettoCache(&RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer backing.Close()

	store := NewPriceStore(backing, time.Hour)
	addr := "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"

	t.Run("set-and-get", func(t *testing.T) {
		price := decimal.RequireFromString("0.0041")
		if !store.Set(addr, price) {
			t.Error("expected Set to succeed")
		}
		backing.(*RistrettoCache).Wait()

		got, found := store.Get(addr)
		if !found {
			t.Fatal("expected price to be found")
		}
		if !got.Equal(price) {
			t.Errorf("expected %s, got %s", price, got)
		}
	})

	t.Run("get-missing-address", func(t *testing.T) {
		_, found := store.Get("0x0000000000000000000000000000000000000000")
		if found {
			t.Error("expected no price for unknown address")
		}
	})

	t.Run("namespaced-keys", func(t *testing.T) {
		// A raw entry under the bare address must not leak into the store.
		backing.Set(addr+"-other", "not-a-price", time.Hour)
		backing.Set(addr, "not-a-price", time.Hour)
		backing.(*RistrettoCache).Wait()

		got, found := store.Get(addr)
		if !found {
			t.Skip("Ristretto probabilistic admission - price not admitted")
		}
		if !got.Equal(decimal.RequireFromString("0.0041")) {
			t.Errorf("unexpected price %s", got)
		}
	})
}

func TestPriceStoreNilCache(t *testing.T) {
	store := NewPriceStore(nil, time.Hour)

	if store.Set("0x01", decimal.NewFromInt(1)) {
		t.Error("expected Set on nil cache to report failure")
	}
	if _, found := store.Get("0x01"); found {
		t.Error("expected Get on nil cache to miss")
	}
}
