package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"udonboard/internal/api"
	"udonboard/internal/board"
	"udonboard/internal/config"
	"udonboard/internal/feed"
	"udonboard/internal/history"
	"udonboard/internal/metrics"
	"udonboard/internal/models"
)

var (
	configFile  = flag.String("config", "", "Path to configuration file")
	listenAddr  = flag.String("listen", "", "API listen address (overrides config)")
	metricsAddr = flag.String("metrics", "", "Metrics listen address (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// History store
	var hist *history.Store
	if cfg.History.Driver != "" {
		hist, err = history.Open(cfg.History.Driver, cfg.History.DSN)
		if err != nil {
			logger.Fatal("failed to open history store", zap.Error(err))
		}
		defer hist.Close()
	}

	// Board with metrics and live display push
	collector := metrics.NewCollector()
	hub := api.NewHub(logger)
	var archiver board.Archiver
	if hist != nil {
		archiver = hist
	}
	b := board.New(board.Config{
		PotCount: cfg.Pots.Count,
		Policy:   cfg.DurationPolicy(),
		Notifier: board.MultiNotifier{collector, hub},
		Archiver: archiver,
		Logger:   logger,
	})

	// Heartbeat: one tick per second drives every running timer.
	go runHeartbeat(ctx, b)

	// Simulated order feed
	if cfg.Feed.Enabled {
		gen := feed.NewGenerator(b, models.DefaultMenu(), cfg.Feed.Probability, logger)
		if err := gen.Start(cfg.Feed.Schedule); err != nil {
			logger.Fatal("failed to start order feed", zap.Error(err))
		}
		defer gen.Stop()
	}

	// Metrics server
	go startMetricsServer(cfg.MetricsAddr, collector, logger)

	// API server
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewServer(b, hist, hub, logger).Router,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}
		cancel()
	}()

	logger.Info("starting order board",
		zap.String("listen", cfg.ListenAddr),
		zap.Int("pots", cfg.Pots.Count),
		zap.String("timing", cfg.Timing.Profile))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			return nil, err
		}
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// runHeartbeat applies one second of countdown per wall-clock second.
// All running items advance in a single atomic batch per beat.
func runHeartbeat(ctx context.Context, b *board.Board) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Tick()
		}
	}
}

func startMetricsServer(addr string, collector *metrics.Collector, logger *zap.Logger) {
	router := gin.New()
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		collector.Registry(),
		promhttp.HandlerOpts{},
	)))

	logger.Info("starting metrics server", zap.String("addr", addr))
	if err := (&http.Server{Addr: addr, Handler: router}).ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("metrics server error", zap.Error(err))
	}
}
