// Package main runs a development stand-in for the automation server. Viewers
// connect on /ws/pool; updates POSTed to /api/v1/pool are broadcast to them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glasspool/internal/hub"
	"github.com/Faultbox/glasspool/internal/logger"
	"github.com/Faultbox/glasspool/internal/pool"
)

func main() {
	addr := flag.String("addr", ":1880", "listen address")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "optional rotating log file")
	flag.Parse()

	if err := logger.Init(*level, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	if err := run(*addr); err != nil {
		logger.Error("poolserver error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mirror, err := pool.New(pool.DefaultValues())
	if err != nil {
		return fmt.Errorf("pool mirror: %w", err)
	}

	h := hub.New()
	go h.Run(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           hub.NewHandler(h, mirror).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("poolserver listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
