package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chartSignals/internal/aggregate"
	"chartSignals/internal/domain"
	"chartSignals/internal/ports"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
)

// Client implements the ports.MarketDataClient interface using the
// go-binance library. Responses are cached in memory for a configurable TTL
// so a screener pass over many intervals does not refetch the same history.
type Client struct {
	api    *binance.Client
	logger ports.Logger
	cache  *candleCache
}

// Config holds configuration specific to the Binance market data adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	Logger     ports.Logger
	CacheTTL   time.Duration // 0 disables response caching
}

// New creates a new Binance market data adapter. Candle endpoints are
// public, so empty API keys are allowed.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	binance.UseTestnet = cfg.UseTestnet
	api := binance.NewClient(cfg.APIKey, cfg.SecretKey)
	cfg.Logger.Info(context.Background(), "Binance client configured",
		map[string]interface{}{"testnet": cfg.UseTestnet, "cacheTTL": cfg.CacheTTL.String()})
	return &Client{
		api:    api,
		logger: cfg.Logger,
		cache:  newCandleCache(cfg.CacheTTL),
	}, nil
}

// Ping checks the connectivity to the exchange API.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.api.NewPingService().Do(ctx); err != nil {
		return c.handleError(ctx, err, "Ping")
	}
	return nil
}

// GetCandles retrieves up to limit candles for the symbol at the given
// interval, sorted ascending by time. Intervals that require coarser bars
// than the exchange serves natively ("4h" session blocks, "1M" months) are
// built by fetching the finer native interval and aggregating.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive: %w", ports.ErrInvalidRequest)
	}
	iv := aggregate.ParseInterval(interval)
	if string(iv) != interval {
		c.logger.Warn(ctx, "Unrecognized interval, falling back to default",
			map[string]interface{}{"requested": interval, "using": string(iv)})
	}

	cacheKey := symbol + "|" + string(iv) + "|" + strconv.Itoa(limit)
	if cached, ok := c.cache.get(cacheKey); ok {
		return cached, nil
	}

	fetchInterval, fetchLimit, combine := resolveFetch(iv, limit)
	klines, err := c.api.NewKlinesService().
		Symbol(symbol).
		Interval(fetchInterval).
		Limit(fetchLimit).
		Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, "GetCandles")
	}

	candles := make([]domain.Candle, 0, len(klines))
	for _, k := range klines {
		candle, err := parseKline(k)
		if err != nil {
			return nil, fmt.Errorf("GetCandles: malformed kline for %s: %w", symbol, err)
		}
		candles = append(candles, candle)
	}
	if combine != nil {
		candles = combine(candles)
		if len(candles) > limit {
			candles = candles[len(candles)-limit:]
		}
	}
	c.cache.put(cacheKey, candles)
	c.logger.Debug(ctx, "Fetched candles", map[string]interface{}{
		"symbol": symbol, "interval": string(iv), "count": len(candles)})
	return candles, nil
}

// GetChartCandles returns the same history as GetCandles with bar times
// shifted to the display convention (sub-daily bars stamped at period end).
func (c *Client) GetChartCandles(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
	candles, err := c.GetCandles(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}
	return aggregate.ShiftDisplayTimes(candles, aggregate.ParseInterval(interval)), nil
}

// maxFetchLimit is the exchange's per-request kline cap.
const maxFetchLimit = 1000

// resolveFetch maps a requested interval onto the native interval to fetch,
// the number of native bars needed, and an aggregation step (nil when the
// interval is served natively).
func resolveFetch(iv aggregate.Interval, limit int) (string, int, func([]domain.Candle) []domain.Candle) {
	switch iv {
	case aggregate.Interval4h:
		// Each AM/PM session block spans at most 12 hourly bars.
		return "1h", capLimit(limit * 12), aggregate.SessionBuckets
	case aggregate.Interval1M:
		return "1d", capLimit(limit * 31), aggregate.MonthlyBuckets
	default:
		return string(iv), capLimit(limit), nil
	}
}

func capLimit(n int) int {
	if n > maxFetchLimit {
		return maxFetchLimit
	}
	return n
}

// parseKline converts an exchange kline (string-typed prices) into a candle.
func parseKline(k *binance.Kline) (domain.Candle, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("open %q: %w", k.Open, err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("high %q: %w", k.High, err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("low %q: %w", k.Low, err)
	}
	cls, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("close %q: %w", k.Close, err)
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("volume %q: %w", k.Volume, err)
	}
	return domain.Candle{
		Time:   k.OpenTime,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  cls,
		Volume: volume,
	}, nil
}

// handleError translates common Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}
	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1021: // Timestamp outside of recvWindow
			mappedErr = ports.ErrTimeout
		case -1022: // Invalid signature
			mappedErr = ports.ErrAuthenticationFailed
		case -2014, -2015: // Bad API key format / permissions
			mappedErr = ports.ErrInvalidAPIKeys
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1120, -1121:
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrUnknown
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	case strings.Contains(err.Error(), "connection refused"),
		strings.Contains(err.Error(), "no such host"):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}
	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}
