package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"chartSignals/config"
	"chartSignals/internal/adapters/binanceclient"
	"chartSignals/internal/adapters/logger"
	"chartSignals/internal/adapters/sqlite"
	"chartSignals/internal/indicators"
	"chartSignals/internal/metrics"
	"chartSignals/internal/screener"
	"chartSignals/internal/utils"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize watchlist repository")
		log.Fatalf("FATAL: Failed to initialize watchlist repository: %v", err) // Also log to stderr
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing watchlist repository")
		}
	}()

	// 4. Initialize Market Data Client (Binance Adapter)
	market, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
		CacheTTL:   cfg.CacheTTL,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	if err := market.Ping(ctx); err != nil {
		appLogger.Warn(ctx, "Exchange ping failed, continuing anyway", map[string]interface{}{"error": err.Error()})
	}

	// 5. Initialize Metrics
	promMetrics := metrics.New(prometheus.DefaultRegisterer)
	metricsServer := metrics.NewServer(cfg.MetricsAddr)
	metricsServer.Start(func(err error) {
		appLogger.Error(context.Background(), err, "Metrics server failed")
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			appLogger.Error(context.Background(), err, "Error stopping metrics server")
		}
	}()
	appLogger.Info(ctx, "Metrics server listening", map[string]interface{}{"addr": cfg.MetricsAddr})

	// 6. Initialize Screener
	scr, err := screener.New(screener.Config{
		Intervals:    cfg.Intervals,
		CandleLimit:  cfg.CandleLimit,
		LookbackBars: cfg.LookbackBars,
		CD: indicators.CDConfig{
			MACD: indicators.MACDConfig{
				FastPeriod:   cfg.MACDFastPeriod,
				SlowPeriod:   cfg.MACDSlowPeriod,
				SignalPeriod: cfg.MACDSignalPeriod,
			},
			EaseMultiplier: cfg.CDEaseMultiplier,
		},
		Pressure: indicators.PressureConfig{
			SmoothPeriod:        cfg.PressureSmoothPeriod,
			AvgPeriod:           cfg.PressureAvgPeriod,
			ChangeRateThreshold: cfg.PressureChangeRate,
			VolumeSurgeRatio:    cfg.PressureVolumeSurge,
			AbsSurgeRatio:       cfg.PressureAbsSurgeRatio,
		},
		Ladder: indicators.LadderConfig{
			InnerPeriod:     cfg.LadderInnerPeriod,
			OuterPeriod:     cfg.LadderOuterPeriod,
			ATRPeriod:       cfg.LadderATRPeriod,
			InnerMultiplier: cfg.LadderInnerMultiplier,
			OuterMultiplier: cfg.LadderOuterMultiplier,
		},
		NX: indicators.NXConfig{
			FastPeriod:       cfg.NXFastPeriod,
			SlowPeriod:       cfg.NXSlowPeriod,
			VolumePeriod:     cfg.NXVolumePeriod,
			VolumeMultiplier: cfg.NXVolumeMultiplier,
		},
	}, market, appLogger, promMetrics)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize screener")
		log.Fatalf("FATAL: Failed to initialize screener: %v", err)
	}

	// 7. Run the scan loop until interrupted
	symbols := scanUniverse(ctx, cfg, repo, appLogger)
	if cfg.CSVExportDir != "" {
		exportCandles(ctx, cfg, market, symbols, appLogger)
	}
	appLogger.Info(ctx, "Screener started", map[string]interface{}{
		"symbols":   symbols,
		"intervals": cfg.Intervals,
		"every":     cfg.ScanInterval.String(),
	})

	runScan(ctx, scr, symbols, appLogger)
	ticker := time.NewTicker(cfg.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			appLogger.Info(context.Background(), "Shutdown signal received, stopping screener")
			return
		case <-ticker.C:
			// The watchlist can change between passes; re-read it each time.
			symbols = scanUniverse(ctx, cfg, repo, appLogger)
			runScan(ctx, scr, symbols, appLogger)
		}
	}
}

// scanUniverse merges the configured symbols with the persisted watchlist,
// deduplicated in first-seen order.
func scanUniverse(ctx context.Context, cfg *config.Config, repo *sqlite.Repository, appLogger *logger.StdLogger) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, s := range cfg.Symbols {
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}
	entries, err := repo.List(ctx)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to read watchlist, scanning configured symbols only")
		return symbols
	}
	for _, e := range entries {
		if !seen[e.Symbol] {
			seen[e.Symbol] = true
			symbols = append(symbols, e.Symbol)
		}
	}
	return symbols
}

// exportCandles dumps each symbol's display-time candle history to CSV, one
// file per symbol/interval pair.
func exportCandles(ctx context.Context, cfg *config.Config, market *binanceclient.Client, symbols []string, appLogger *logger.StdLogger) {
	if err := os.MkdirAll(cfg.CSVExportDir, 0755); err != nil {
		appLogger.Error(ctx, err, "Failed to create CSV export directory")
		return
	}
	for _, symbol := range symbols {
		for _, interval := range cfg.Intervals {
			candles, err := market.GetChartCandles(ctx, symbol, interval, cfg.CandleLimit)
			if err != nil {
				appLogger.Error(ctx, err, "CSV export fetch failed",
					map[string]interface{}{"symbol": symbol, "interval": interval})
				continue
			}
			name := filepath.Join(cfg.CSVExportDir, symbol+"_"+interval+".csv")
			if err := utils.WriteCandlesToCSV(candles, symbol, interval, name); err != nil {
				appLogger.Error(ctx, err, "CSV export write failed",
					map[string]interface{}{"file": name})
				continue
			}
			appLogger.Info(ctx, "Exported candles", map[string]interface{}{"file": name, "count": len(candles)})
		}
	}
}

func runScan(ctx context.Context, scr *screener.Screener, symbols []string, appLogger *logger.StdLogger) {
	for _, res := range scr.Scan(ctx, symbols) {
		if !res.HasSignals() {
			continue
		}
		fields := map[string]interface{}{
			"symbol":      res.Symbol,
			"interval":    res.Interval,
			"trendStrong": res.TrendStrong,
		}
		for _, sig := range res.CDSignals {
			fields["cd_"+sig.Label] = string(sig.Direction)
		}
		for _, sig := range res.NXSignals {
			fields[sig.Label] = string(sig.Direction)
		}
		if res.PressureAlert != nil {
			fields["pressure"] = string(res.PressureAlert.Signal)
		}
		appLogger.Info(ctx, "Signals detected", fields)
	}
}
