// Package cache provides the Redis-backed market report cache. Caching is
// optional: a nil *ReportCache is safe to use and behaves as a miss on every
// lookup.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nijhum/phonepulse/internal/model"
)

// Config holds Redis connection settings.
type Config struct {
	URL          string
	TTL          time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
}

// ReportCache caches computed market reports keyed by brand and model.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis and verifies the connection with a ping.
func New(cfg Config, logger *slog.Logger) (*ReportCache, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &ReportCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Get returns the cached report for a brand/model, with a hit flag. Cache
// errors are logged and reported as misses.
func (c *ReportCache) Get(ctx context.Context, brand, phoneModel string) (*model.MarketReport, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, reportKey(brand, phoneModel)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Report cache read failed", "error", err)
		}
		return nil, false
	}

	var report model.MarketReport
	if err := json.Unmarshal(data, &report); err != nil {
		c.logger.Warn("Report cache entry corrupted", "error", err)
		return nil, false
	}
	return &report, true
}

// Set stores a report under the brand/model key with the configured TTL.
func (c *ReportCache) Set(ctx context.Context, brand, phoneModel string, report *model.MarketReport) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := c.client.Set(ctx, reportKey(brand, phoneModel), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func reportKey(brand, phoneModel string) string {
	return "report:" + strings.ToLower(brand) + ":" + strings.ToLower(phoneModel)
}
