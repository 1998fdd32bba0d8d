package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fairdex/auction-monitor/internal/dx"
	"github.com/fairdex/auction-monitor/internal/monitor"
	"github.com/fairdex/auction-monitor/internal/registry"
	"github.com/fairdex/auction-monitor/pkg/cache"
	"github.com/fairdex/auction-monitor/pkg/config"
	"github.com/fairdex/auction-monitor/pkg/healthprobe"
	"github.com/fairdex/auction-monitor/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	dxClient      *dx.Client
	tokenRegistry *registry.Registry
	monitor       *monitor.Service
	storage       monitor.Storage
	priceCache    cache.Cache
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	Pairs []string // For debugging: overrides the configured trading pairs
}
