package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.Strings("pairs", a.cfg.TokenPairs),
		zap.Duration("poll-interval", a.cfg.PollInterval),
		zap.String("storage-mode", a.cfg.StorageMode),
		zap.String("log-level", a.cfg.LogLevel))

	a.startComponents()

	// Wait for shutdown signal
	return a.waitForShutdown()
}

func (a *App) startComponents() {
	// Start HTTP server
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Start auction monitor
	a.wg.Add(1)
	go a.runMonitor()

	// Readiness flips only once the monitor's first poll cycle completed
	a.wg.Add(1)
	go a.markReadyAfterFirstPoll()

	// Forward monitor updates to websocket clients
	if hub := a.httpServer.Hub(); hub != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			hub.Forward(a.monitor.UpdatesChan())
		}()
	}
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) markReadyAfterFirstPoll() {
	defer a.wg.Done()

	select {
	case <-a.monitor.FirstPollDone():
		a.healthChecker.SetReady(true)
		a.logger.Info("application-ready",
			zap.String("http-addr", ":"+a.cfg.HTTPPort),
			zap.String("rpc-url", a.cfg.EthRPCURL))
	case <-a.ctx.Done():
	}
}

func (a *App) runMonitor() {
	defer a.wg.Done()
	err := a.monitor.Run(a.ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("monitor-error", zap.Error(err))
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
