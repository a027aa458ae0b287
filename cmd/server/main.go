package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"renewable_simulator/internal/cache"
	"renewable_simulator/internal/config"
	"renewable_simulator/internal/ingest"
	"renewable_simulator/internal/logging"
	"renewable_simulator/internal/metrics"
	"renewable_simulator/internal/model"
	"renewable_simulator/internal/publish"
	"renewable_simulator/internal/server"
	"renewable_simulator/internal/service"
	"renewable_simulator/internal/simulator"
	"renewable_simulator/internal/store"
	"renewable_simulator/internal/ws"
)

// seriesDirs maps input subdirectories to the parser for their CSV files.
var seriesDirs = []struct {
	dir    string
	parser func(id string) ingest.Parser
}{
	{"wind", func(id string) ingest.Parser { return &ingest.DailyWindParser{SeriesID: id} }},
	{"energy", func(id string) ingest.Parser { return &ingest.MonthlyEnergyParser{SeriesID: id} }},
	{"price", func(id string) ingest.Parser { return &ingest.PriceParser{SeriesID: id} }},
}

func main() {
	configPath := flag.String("config", "", "optional YAML configuration file")
	inputDir := flag.String("input-dir", "", "directory containing CSV resource series (overrides config)")
	frontendDir := flag.String("frontend-dir", "", "directory containing frontend build (overrides config)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(&cfg.Server, *inputDir, *frontendDir, *addr)

	logger, err := logging.New(cfg.Server.LogLevel, cfg.Server.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func applyFlags(s *config.Server, inputDir, frontendDir, addr string) {
	if inputDir != "" {
		s.InputDir = inputDir
	}
	if frontendDir != "" {
		s.FrontendDir = frontendDir
	}
	if addr != "" {
		s.Addr = addr
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	series := store.NewSeriesStore()
	var loaded model.TimeRange
	for _, d := range seriesDirs {
		tr, err := loadSeriesDir(filepath.Join(cfg.Server.InputDir, d.dir), d.dir, d.parser, series, logger)
		if err != nil {
			logger.Info("series directory skipped", zap.String("dir", d.dir), zap.Error(err))
			continue
		}
		loaded = mergeTimeRanges(loaded, tr)
	}
	if !loaded.Start.IsZero() {
		logger.Info("series loaded",
			zap.Int("series", len(series.Series())),
			zap.String("from", loaded.Start.Format("2006-01-02")),
			zap.String("to", loaded.End.Format("2006-01-02")))
	}

	hub := ws.NewHub(logger)
	bridge := ws.NewBridge(hub, logger)
	engine := simulator.New(cfg.Engine,
		simulator.WithSeries(series),
		simulator.WithObserver(bridge),
		simulator.WithWorkers(cfg.Server.Workers),
	)

	m := metrics.New()
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithNotifier(bridge),
	}

	var runs store.Runs = store.NewMemoryRuns()
	if cfg.Server.DatabaseURL != "" {
		pg, err := store.OpenPostgres(ctx, cfg.Server.DatabaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()
		runs = pg
		logger.Info("persisting runs in postgres")
	}

	if cfg.Server.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cfg.Server.RedisAddr, cfg.Server.CacheTTL)
		if err != nil {
			return err
		}
		defer rc.Close()
		opts = append(opts, service.WithCache(rc))
		logger.Info("caching results in redis", zap.String("addr", cfg.Server.RedisAddr))
	} else {
		opts = append(opts, service.WithCache(cache.NewMemory(cfg.Server.CacheTTL)))
	}

	if cfg.Server.MQTTBroker != "" {
		pub, err := publish.Connect(cfg.Server.MQTTBroker, cfg.Server.MQTTClient, cfg.Server.MQTTTopic, logger)
		if err != nil {
			return err
		}
		go pub.Run(ctx)
		opts = append(opts, service.WithNotifier(pub))
	}

	svc := service.New(engine, runs, opts...)

	srvOpts := []server.Option{
		server.WithMetrics(m),
		server.WithSeries(series),
		server.WithWebSocket(ws.NewHandler(hub, svc, series, logger)),
	}
	if cfg.Server.FrontendDir != "" {
		if _, err := os.Stat(cfg.Server.FrontendDir); err == nil {
			logger.Info("serving frontend", zap.String("dir", cfg.Server.FrontendDir))
			srvOpts = append(srvOpts, server.WithStatic(cfg.Server.FrontendDir))
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(svc, logger, srvOpts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down", zap.Int("websocket_clients", hub.ClientCount()))
	hub.Close()
	return httpServer.Shutdown(shutdownCtx)
}

// loadSeriesDir loads every CSV file in dir into s. Each file becomes one
// series named "<prefix>.<file stem>". Returns the combined time range.
func loadSeriesDir(dir, prefix string, newParser func(id string) ingest.Parser, s *store.SeriesStore, logger *zap.Logger) (model.TimeRange, error) {
	var tr model.TimeRange
	entries, err := os.ReadDir(dir)
	if err != nil {
		return tr, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			return tr, fmt.Errorf("opening %s: %w", path, err)
		}

		id := seriesIDFromFilename(prefix, entry.Name())
		samples, err := newParser(id).Parse(f)
		f.Close()
		if err != nil {
			return tr, fmt.Errorf("parsing %s: %w", path, err)
		}

		if len(samples) > 0 {
			s.AddSamples(samples)
			tr = extendTimeRange(tr, samples)
			logger.Debug("series file loaded", zap.String("file", path), zap.String("series_id", id), zap.Int("samples", len(samples)))
		}
	}

	return tr, nil
}

// seriesIDFromFilename derives a series ID from a CSV file name.
func seriesIDFromFilename(prefix, filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	stem = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(stem), " ", "_"))
	return prefix + "." + stem
}

// extendTimeRange extends tr to include the min/max timestamps from samples.
func extendTimeRange(tr model.TimeRange, samples []model.Sample) model.TimeRange {
	for _, s := range samples {
		if tr.Start.IsZero() || s.Timestamp.Before(tr.Start) {
			tr.Start = s.Timestamp
		}
		if s.Timestamp.After(tr.End) {
			tr.End = s.Timestamp
		}
	}
	return tr
}

// mergeTimeRanges returns the union of two time ranges. Zero-value ranges are ignored.
func mergeTimeRanges(a, b model.TimeRange) model.TimeRange {
	if a.Start.IsZero() {
		return b
	}
	if b.Start.IsZero() {
		return a
	}
	result := a
	if b.Start.Before(result.Start) {
		result.Start = b.Start
	}
	if b.End.After(result.End) {
		result.End = b.End
	}
	return result
}
