package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"golist/internal/httpapi"
	"golist/internal/list"
	"golist/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the list and theme over HTTP",
	Long: `Serve the list API on HTTP_ADDR (default :9090).

Routes: /items, /items/{id}, /theme, /healthz and /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	store := deps.newStore(ctx, list.WithObserver(metrics.New(reg)))

	handler := httpapi.NewHandler(store, deps.prefs, deps.backend, log)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Gatherer:           reg,
	})
	server := httpapi.NewServer(cfg.HTTPAddr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server is listening",
			zap.String("addr", server.Addr),
			zap.String("backend", cfg.StorageBackend),
			zap.Int("items", len(store.List())),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("could not listen: %w", err)
		}
		return nil
	case <-quit:
	}
	log.Info("server is shutting down")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
