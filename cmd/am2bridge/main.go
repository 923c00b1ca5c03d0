// cmd/am2bridge/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tamzrod/am2-bridge/internal/config"
	"github.com/tamzrod/am2-bridge/internal/poller"
	"github.com/tamzrod/am2-bridge/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: am2bridge <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Metrics
	// --------------------

	metrics := poller.NewMetrics()

	var registerer prometheus.Registerer
	if cfg.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			metrics,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		registerer = reg

		serveMetrics(ctx, cfg.Metrics.Listen, reg, logger)
	}

	// --------------------
	// Build pipeline
	// --------------------

	p, closePoller, err := poller.Build(cfg, metrics, logger.Named("poller"))
	if err != nil {
		logger.Error("poller build failed", zap.String("endpoint", cfg.Source.Endpoint), zap.Error(err))
		return
	}
	defer closePoller()

	w, closeWriters, err := writer.Build(cfg, registerer)
	if err != nil {
		logger.Error("writer build failed", zap.Error(err))
		return
	}
	defer closeWriters()

	// with nowhere to deliver, values are logged
	dump := false
	if m, ok := w.(writer.Multi); ok && len(m) == 0 {
		logger.Warn("no writers enabled; register values are only logged")
		dump = true
	}

	logger.Info("am2bridge started",
		zap.String("transport", cfg.Source.Transport),
		zap.String("endpoint", cfg.Source.Endpoint),
		zap.Ints("devices", cfg.Source.Devices),
		zap.Duration("interval", time.Duration(cfg.Poll.IntervalMs)*time.Millisecond),
		zap.Bool("mqtt", cfg.MQTT.Enabled),
		zap.Bool("hass", cfg.MQTT.HASS.Enabled))

	// ---- channel between poller and writers ----
	out := make(chan poller.PollResult)

	// poller producer
	go p.Run(ctx, out)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutdown signal received")
			return

		case res := <-out:
			logger.Debug("device polled",
				zap.Uint8("device", res.Device),
				zap.Int("read", res.Pass.Read),
				zap.Int("skipped", res.Pass.Skipped),
				zap.Int("failed", res.Pass.Failed))

			if res.Pass.Failed > 0 {
				logger.Warn("device pass incomplete",
					zap.Uint8("device", res.Device),
					zap.Int("failed", res.Pass.Failed),
					zap.Int("attempted", res.Pass.Attempted()))
			}

			if dump {
				logEntries(logger, res)
			}

			if err := w.Write(res); err != nil {
				logger.Warn("writer error", zap.Uint8("device", res.Device), zap.Error(err))
			}
		}
	}
}

// newLogger builds a production or development logger at the configured level.
func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// serveMetrics exposes reg on /metrics until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

func logEntries(logger *zap.Logger, res poller.PollResult) {
	for _, e := range res.Entries {
		if !e.Value.Valid() {
			continue
		}
		logger.Info("register",
			zap.Uint8("device", res.Device),
			zap.Uint16("address", e.Address),
			zap.String("name", e.Name),
			zap.Stringer("value", e.Value),
			zap.String("unit", e.Unit))
	}
}
