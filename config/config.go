package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"chartSignals/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration.
type Config struct {
	// Binance API (candle endpoints are public; keys are optional)
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Screener Parameters
	Symbols      []string // base symbol universe (merged with the watchlist at startup)
	Intervals    []string // chart intervals scanned per symbol
	CandleLimit  int      // history depth fetched per scan
	LookbackBars int      // trailing window of bars whose events are surfaced
	ScanInterval time.Duration
	CacheTTL     time.Duration // market data response cache (0 disables)

	// Indicator Parameters
	MACDFastPeriod   int
	MACDSlowPeriod   int
	MACDSignalPeriod int
	CDEaseMultiplier float64

	PressureSmoothPeriod  int
	PressureAvgPeriod     int
	PressureChangeRate    float64
	PressureVolumeSurge   float64
	PressureAbsSurgeRatio float64

	LadderInnerPeriod     int
	LadderOuterPeriod     int
	LadderATRPeriod       int
	LadderInnerMultiplier float64
	LadderOuterMultiplier float64

	NXFastPeriod       int
	NXSlowPeriod       int
	NXVolumePeriod     int
	NXVolumeMultiplier float64

	// Database
	DBPath string

	// Metrics
	MetricsAddr string

	// Optional candle dump directory ("" disables)
	CSVExportDir string

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	// Screener Parameters
	cfg.Symbols = getEnvAsList("SYMBOLS", []string{"BTCUSDT", "ETHUSDT"})
	if len(cfg.Symbols) == 0 {
		errs = append(errs, "SYMBOLS must name at least one symbol")
	}
	cfg.Intervals = getEnvAsList("INTERVALS", []string{"1d"})
	if len(cfg.Intervals) == 0 {
		errs = append(errs, "INTERVALS must name at least one interval")
	}

	cfg.CandleLimit = getEnvAsInt("CANDLE_LIMIT", 200)
	if cfg.CandleLimit <= 0 {
		errs = append(errs, "CANDLE_LIMIT must be positive")
	}
	cfg.LookbackBars = getEnvAsInt("LOOKBACK_BARS", 10)
	if cfg.LookbackBars <= 0 {
		errs = append(errs, "LOOKBACK_BARS must be positive")
	}

	scanIntervalSeconds := getEnvAsInt("SCAN_INTERVAL_SECONDS", 300)
	if scanIntervalSeconds <= 0 {
		errs = append(errs, "SCAN_INTERVAL_SECONDS must be positive")
	}
	cfg.ScanInterval = time.Duration(scanIntervalSeconds) * time.Second

	cacheTTLSeconds := getEnvAsInt("CACHE_TTL_SECONDS", 60)
	if cacheTTLSeconds < 0 {
		errs = append(errs, "CACHE_TTL_SECONDS cannot be negative")
	}
	cfg.CacheTTL = time.Duration(cacheTTLSeconds) * time.Second

	// Indicator Parameters (using defaults if not set)
	cfg.MACDFastPeriod = getEnvAsInt("MACD_FAST_PERIOD", 12)
	cfg.MACDSlowPeriod = getEnvAsInt("MACD_SLOW_PERIOD", 26)
	cfg.MACDSignalPeriod = getEnvAsInt("MACD_SIGNAL_PERIOD", 9)
	cfg.CDEaseMultiplier = getEnvAsFloat("CD_EASE_MULTIPLIER", 1.01)

	if cfg.MACDFastPeriod <= 0 || cfg.MACDSlowPeriod <= 0 || cfg.MACDSignalPeriod <= 0 {
		errs = append(errs, "MACD periods must be positive")
	}
	if cfg.MACDFastPeriod >= cfg.MACDSlowPeriod {
		errs = append(errs, "MACD_FAST_PERIOD must be less than MACD_SLOW_PERIOD")
	}
	if cfg.CDEaseMultiplier < 1.0 {
		errs = append(errs, "CD_EASE_MULTIPLIER must be at least 1.0")
	}

	cfg.PressureSmoothPeriod = getEnvAsInt("PRESSURE_SMOOTH_PERIOD", 10)
	cfg.PressureAvgPeriod = getEnvAsInt("PRESSURE_AVG_PERIOD", 20)
	cfg.PressureChangeRate = getEnvAsFloat("PRESSURE_CHANGE_RATE", 10.0)
	cfg.PressureVolumeSurge = getEnvAsFloat("PRESSURE_VOLUME_SURGE", 1.2)
	cfg.PressureAbsSurgeRatio = getEnvAsFloat("PRESSURE_ABS_SURGE_RATIO", 1.5)
	if cfg.PressureSmoothPeriod <= 0 || cfg.PressureAvgPeriod <= 0 {
		errs = append(errs, "pressure smoothing periods must be positive")
	}

	cfg.LadderInnerPeriod = getEnvAsInt("LADDER_INNER_PERIOD", 20)
	cfg.LadderOuterPeriod = getEnvAsInt("LADDER_OUTER_PERIOD", 60)
	cfg.LadderATRPeriod = getEnvAsInt("LADDER_ATR_PERIOD", 14)
	cfg.LadderInnerMultiplier = getEnvAsFloat("LADDER_INNER_MULTIPLIER", 2.0)
	cfg.LadderOuterMultiplier = getEnvAsFloat("LADDER_OUTER_MULTIPLIER", 3.0)
	if cfg.LadderInnerPeriod >= cfg.LadderOuterPeriod {
		errs = append(errs, "LADDER_INNER_PERIOD must be less than LADDER_OUTER_PERIOD")
	}
	if cfg.LadderATRPeriod <= 0 {
		errs = append(errs, "LADDER_ATR_PERIOD must be positive")
	}

	cfg.NXFastPeriod = getEnvAsInt("NX_FAST_PERIOD", 5)
	cfg.NXSlowPeriod = getEnvAsInt("NX_SLOW_PERIOD", 10)
	cfg.NXVolumePeriod = getEnvAsInt("NX_VOLUME_PERIOD", 10)
	cfg.NXVolumeMultiplier = getEnvAsFloat("NX_VOLUME_MULTIPLIER", 1.5)
	if cfg.NXFastPeriod <= 0 || cfg.NXSlowPeriod <= 0 || cfg.NXVolumePeriod <= 0 {
		errs = append(errs, "NX periods must be positive")
	}
	if cfg.NXFastPeriod >= cfg.NXSlowPeriod {
		errs = append(errs, "NX_FAST_PERIOD must be less than NX_SLOW_PERIOD")
	}

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/screener.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Metrics
	cfg.MetricsAddr = getEnv("METRICS_ADDR", ":9090")

	// CSV export
	cfg.CSVExportDir = getEnv("CSV_EXPORT_DIR", "")

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Log warning? For non-required fields, default is often acceptable.
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
