package config

import (
	"os"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel to be info, got %q", cfg.LogLevel)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected HTTPPort to be 8080, got %q", cfg.HTTPPort)
	}

	if cfg.PollInterval != 15*time.Second {
		t.Errorf("expected PollInterval to be 15s, got %v", cfg.PollInterval)
	}

	if cfg.StorageMode != "console" {
		t.Errorf("expected StorageMode to be console, got %q", cfg.StorageMode)
	}
}

func TestConfig_TokenPairs(t *testing.T) {
	t.Run("single_pair", func(t *testing.T) {
		os.Setenv("TOKEN_PAIRS", "WETH-RDN")
		t.Cleanup(func() {
			os.Unsetenv("TOKEN_PAIRS")
		})

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(cfg.TokenPairs) != 1 || cfg.TokenPairs[0] != "WETH-RDN" {
			t.Errorf("expected [WETH-RDN], got %v", cfg.TokenPairs)
		}
	})

	t.Run("multiple_pairs_with_spaces", func(t *testing.T) {
		os.Setenv("TOKEN_PAIRS", "WETH-RDN, WETH-OMG ,WETH-GEN")
		t.Cleanup(func() {
			os.Unsetenv("TOKEN_PAIRS")
		})

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"WETH-RDN", "WETH-OMG", "WETH-GEN"}
		if len(cfg.TokenPairs) != len(want) {
			t.Fatalf("expected %d pairs, got %v", len(want), cfg.TokenPairs)
		}
		for i, p := range want {
			if cfg.TokenPairs[i] != p {
				t.Errorf("pair %d: expected %q, got %q", i, p, cfg.TokenPairs[i])
			}
		}
	})

	t.Run("malformed_pair_rejected", func(t *testing.T) {
		os.Setenv("TOKEN_PAIRS", "WETHRDN")
		t.Cleanup(func() {
			os.Unsetenv("TOKEN_PAIRS")
		})

		_, err := LoadFromEnv()
		if err == nil {
			t.Fatal("expected error for malformed pair, got nil")
		}
	})
}

func TestConfig_Durations(t *testing.T) {
	t.Run("custom_poll_interval", func(t *testing.T) {
		os.Setenv("POLL_INTERVAL", "30s")
		t.Cleanup(func() {
			os.Unsetenv("POLL_INTERVAL")
		})

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.PollInterval != 30*time.Second {
			t.Errorf("expected PollInterval to be 30s, got %v", cfg.PollInterval)
		}
	})

	t.Run("invalid_duration_falls_back_to_default", func(t *testing.T) {
		os.Setenv("PRICE_CACHE_TTL", "not-a-duration")
		t.Cleanup(func() {
			os.Unsetenv("PRICE_CACHE_TTL")
		})

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.PriceCacheTTL != 5*time.Minute {
			t.Errorf("expected PriceCacheTTL to be 5m, got %v", cfg.PriceCacheTTL)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("invalid_storage_mode_rejected", func(t *testing.T) {
		cfg := &Config{
			HTTPPort:       "8080",
			EthRPCURL:      "https://rpc.mainnet.eth",
			DXContractAddr: "0xb9812E2fA995EC53B5b6DF34d21f9304762C5497",
			TokenPairs:     []string{"WETH-RDN"},
			PollInterval:   15 * time.Second,
			StorageMode:    "redis",
		}

		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error for invalid storage mode, got nil")
		}
	})

	t.Run("non_positive_poll_interval_rejected", func(t *testing.T) {
		cfg := &Config{
			HTTPPort:       "8080",
			EthRPCURL:      "https://rpc.mainnet.eth",
			DXContractAddr: "0xb9812E2fA995EC53B5b6DF34d21f9304762C5497",
			TokenPairs:     []string{"WETH-RDN"},
			PollInterval:   0,
			StorageMode:    "console",
		}

		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error for zero poll interval, got nil")
		}
	})

	t.Run("empty_rpc_url_rejected", func(t *testing.T) {
		cfg := &Config{
			HTTPPort:       "8080",
			EthRPCURL:      "",
			DXContractAddr: "0xb9812E2fA995EC53B5b6DF34d21f9304762C5497",
			TokenPairs:     []string{"WETH-RDN"},
			PollInterval:   15 * time.Second,
			StorageMode:    "console",
		}

		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error for empty RPC URL, got nil")
		}
	})
}
