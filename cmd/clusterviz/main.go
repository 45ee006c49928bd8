// Command clusterviz serves the interactive k-means API.
//
// Usage:
//
//	clusterviz [-config clusterviz.yaml] [-env .env]
//
// Configuration is read from the optional YAML file and CLUSTERVIZ_*
// environment variables; see internal/config.
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

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/clusterviz"
	"github.com/hupe1980/clusterviz/codec"
	"github.com/hupe1980/clusterviz/internal/config"
	"github.com/hupe1980/clusterviz/internal/pointcloud"
	"github.com/hupe1980/clusterviz/internal/resource"
	"github.com/hupe1980/clusterviz/internal/server"
	"github.com/hupe1980/clusterviz/internal/session"
	"github.com/hupe1980/clusterviz/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	envFile := flag.String("env", ".env", "path to a .env file (ignored if missing)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *envFile); err != nil {
		fmt.Fprintln(os.Stderr, "clusterviz:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, envFile string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:  cfg.Limits.MemoryLimitBytes,
		MaxConcurrentRuns: cfg.Limits.MaxConcurrentRuns,
		RequestsPerSecond: cfg.Limits.RequestsPerSecond,
		Burst:             cfg.Limits.Burst,
	})
	sessions := session.NewStore(cfg.Limits.SessionCapacityBytes, rc)
	defer sessions.Close()

	metrics := telemetry.NewCollector()
	if err := registerGauges(metrics, rc, sessions); err != nil {
		return err
	}

	clusterOpts := []clusterviz.Option{
		clusterviz.WithMaxIterations(cfg.Clustering.MaxIterations),
		clusterviz.WithMetricsCollector(metrics),
		clusterviz.WithLogger(logger),
	}
	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(metrics),
		server.WithResourceController(rc),
		server.WithPointCloud(pointcloud.Config{
			Points:   cfg.Data.Points,
			Features: cfg.Data.Features,
			Scale:    cfg.Data.Scale,
			Offset:   cfg.Data.Offset,
		}),
		server.WithResultCache(cfg.Clustering.CacheTTL),
		server.WithRunWaitTimeout(cfg.Limits.RunWaitTimeout),
		server.WithGzip(cfg.Server.Gzip),
	}
	if c, ok := codec.ByName(cfg.Server.Codec); ok {
		serverOpts = append(serverOpts, server.WithCodec(c))
	}
	if cfg.Clustering.Seed != 0 {
		clusterOpts = append(clusterOpts, clusterviz.WithSeed(cfg.Clustering.Seed))
		serverOpts = append(serverOpts, server.WithSeed(cfg.Clustering.Seed))
	}

	srv := server.New(clusterviz.New(clusterOpts...), sessions, serverOpts...)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Server.Addr, "codec", cfg.Server.Codec)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(cfg config.Log) (*clusterviz.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if cfg.Format == "text" {
		return clusterviz.NewTextLogger(level), nil
	}
	return clusterviz.NewJSONLogger(level), nil
}

func registerGauges(m *telemetry.Collector, rc *resource.Controller, sessions *session.Store) error {
	return errors.Join(
		m.RegisterGauge("sessions", "Number of stored sessions", func() float64 {
			return float64(sessions.Len())
		}),
		m.RegisterGauge("session_bytes", "Bytes held by stored session datasets", func() float64 {
			return float64(sessions.Size())
		}),
		m.RegisterGauge("memory_used_bytes", "Bytes accounted by the resource controller", func() float64 {
			return float64(rc.MemoryUsage())
		}),
		m.RegisterGauge("active_runs", "Clustering runs holding a run slot", func() float64 {
			return float64(rc.ActiveRuns())
		}),
		m.RegisterCounter("session_hits_total", "Session lookups that found a dataset", func() float64 {
			hits, _, _ := sessions.Stats()
			return float64(hits)
		}),
		m.RegisterCounter("session_misses_total", "Session lookups without a dataset", func() float64 {
			_, misses, _ := sessions.Stats()
			return float64(misses)
		}),
		m.RegisterCounter("session_evictions_total", "Sessions evicted to stay within capacity", func() float64 {
			_, _, evictions := sessions.Stats()
			return float64(evictions)
		}),
	)
}
