// Package screener runs the indicator suite over live exchange data and
// surfaces the signal events that fall inside a trailing window of recent
// bars.
package screener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chartSignals/internal/domain"
	"chartSignals/internal/indicators"
	"chartSignals/internal/metrics"
	"chartSignals/internal/ports"
)

// Config holds the screener parameters. Zero-value fields fall back to
// their documented defaults.
type Config struct {
	Intervals    []string // chart intervals to scan per symbol
	CandleLimit  int      // history depth fetched per scan
	LookbackBars int      // trailing window of bars whose events are surfaced

	CD       indicators.CDConfig
	Pressure indicators.PressureConfig
	Ladder   indicators.LadderConfig
	NX       indicators.NXConfig
}

func (c Config) withDefaults() Config {
	if len(c.Intervals) == 0 {
		c.Intervals = []string{"1d"}
	}
	if c.CandleLimit <= 0 {
		c.CandleLimit = 200
	}
	if c.LookbackBars <= 0 {
		c.LookbackBars = 10
	}
	return c
}

// Result collects everything a scan found for one symbol/interval pair.
type Result struct {
	Symbol   string
	Interval string

	CDSignals     []domain.CDSignal
	NXSignals     []domain.NXSignal
	PressureAlert *domain.PressurePoint // latest strong_up/strong_down in the window, if any
	TrendStrong   bool
}

// HasSignals reports whether the scan surfaced anything actionable.
func (r Result) HasSignals() bool {
	return len(r.CDSignals) > 0 || len(r.NXSignals) > 0 || r.PressureAlert != nil || r.TrendStrong
}

// Screener fetches candles through the market data port and evaluates the
// full indicator suite.
type Screener struct {
	cfg     Config
	market  ports.MarketDataClient
	logger  ports.Logger
	metrics *metrics.Metrics
}

// New creates a Screener. The metrics handle may be nil when no registry is
// wired up.
func New(cfg Config, market ports.MarketDataClient, logger ports.Logger, m *metrics.Metrics) (*Screener, error) {
	var missing []string
	if market == nil {
		missing = append(missing, "market data client")
	}
	if logger == nil {
		missing = append(missing, "logger")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("screener missing dependencies: %s", strings.Join(missing, ", "))
	}
	return &Screener{
		cfg:     cfg.withDefaults(),
		market:  market,
		logger:  logger,
		metrics: m,
	}, nil
}

// ScanSymbol evaluates one symbol at one interval and returns the events
// inside the trailing lookback window.
func (s *Screener) ScanSymbol(ctx context.Context, symbol, interval string) (Result, error) {
	started := time.Now()
	if s.metrics != nil {
		s.metrics.ScansTotal.Inc()
		defer func() {
			s.metrics.ScanDuration.Observe(time.Since(started).Seconds())
		}()
	}

	res := Result{Symbol: symbol, Interval: interval}
	candles, err := s.market.GetCandles(ctx, symbol, interval, s.cfg.CandleLimit)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ScanErrors.Inc()
		}
		return res, fmt.Errorf("scan %s %s: %w", symbol, interval, err)
	}
	if len(candles) == 0 {
		return res, nil
	}

	cutoff := windowCutoff(candles, s.cfg.LookbackBars)

	for _, sig := range indicators.CDSignals(candles, s.cfg.CD) {
		if sig.Time >= cutoff {
			res.CDSignals = append(res.CDSignals, sig)
			s.countSignal("cd", string(sig.Direction))
		}
	}
	for _, sig := range indicators.NXSignals(candles, s.cfg.NX) {
		if sig.Time >= cutoff {
			res.NXSignals = append(res.NXSignals, sig)
			s.countSignal("nx", string(sig.Direction))
		}
	}
	for _, p := range indicators.Pressure(candles, s.cfg.Pressure) {
		if p.Time >= cutoff && p.Signal != "" {
			point := p
			res.PressureAlert = &point
		}
	}
	if res.PressureAlert != nil {
		s.countSignal("pressure", string(res.PressureAlert.Signal))
	}

	levels := indicators.Ladder(candles, s.cfg.Ladder)
	res.TrendStrong = indicators.LadderTrendStrong(levels, candles)
	if res.TrendStrong {
		s.countSignal("ladder", "trend_strong")
	}

	s.logger.Debug(ctx, "Scan complete", map[string]interface{}{
		"symbol":   symbol,
		"interval": interval,
		"cd":       len(res.CDSignals),
		"nx":       len(res.NXSignals),
		"pressure": res.PressureAlert != nil,
		"trend":    res.TrendStrong,
		"took":     time.Since(started).String(),
	})
	return res, nil
}

// Scan evaluates every symbol across every configured interval. A failed
// symbol is logged and skipped so one bad ticker cannot starve the rest.
func (s *Screener) Scan(ctx context.Context, symbols []string) []Result {
	var results []Result
	for _, symbol := range symbols {
		for _, interval := range s.cfg.Intervals {
			if ctx.Err() != nil {
				return results
			}
			res, err := s.ScanSymbol(ctx, symbol, interval)
			if err != nil {
				s.logger.Error(ctx, err, "Symbol scan failed, continuing",
					map[string]interface{}{"symbol": symbol, "interval": interval})
				continue
			}
			results = append(results, res)
		}
	}
	return results
}

func (s *Screener) countSignal(kind, direction string) {
	if s.metrics != nil {
		s.metrics.SignalsTotal.WithLabelValues(kind, direction).Inc()
	}
}

// windowCutoff returns the open time of the oldest bar inside the trailing
// lookback window.
func windowCutoff(candles []domain.Candle, lookback int) int64 {
	start := len(candles) - lookback
	if start < 0 {
		start = 0
	}
	return candles[start].Time
}
