package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"newsight/models"
)

const insightKeyPrefix = "insights:"

// Conn opens a redis connection and verifies it with a ping.
func Conn(ctx context.Context, host, port, pass string, db int, timeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", host, port),
		DialTimeout: timeout,
		Password:    pass,
		DB:          db,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	if pong != "PONG" {
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}

	return client, nil
}

// InsightCache memoizes generated insight sets keyed by (topic, result count).
//
// Freshness is decided at read time against the stored generation timestamp;
// the key additionally carries a longer physical TTL (retention) so stale
// entries eventually disappear without a sweeper. An entry can therefore be
// present in redis yet no longer served.
type InsightCache struct {
	client    *redis.Client
	freshness time.Duration
	retention time.Duration
	logger    *log.Logger

	now func() time.Time
}

// New creates an insight cache. Freshness bounds the age an entry may reach
// and still be returned; retention is the physical TTL on stored keys.
func New(client *redis.Client, freshness, retention time.Duration) *InsightCache {
	return &InsightCache{
		client:    client,
		freshness: freshness,
		retention: retention,
		logger:    log.New(log.Writer(), "[CACHE] ", log.LstdFlags),
		now:       time.Now,
	}
}

// key is an exact match on the raw topic string; no normalization.
func key(topic string, resultCount int) string {
	return fmt.Sprintf("%s%d:%s", insightKeyPrefix, resultCount, topic)
}

// Get returns the cached insights for the key if they were generated within
// the freshness window. The second return reports a hit; errors indicate the
// store itself failed and callers are expected to fail open.
func (c *InsightCache) Get(ctx context.Context, topic string, resultCount int) ([]models.Insight, bool, error) {
	val, err := c.client.Get(ctx, key(topic, resultCount)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, false, err
	}

	if c.now().Sub(entry.GeneratedAt) >= c.freshness {
		return nil, false, nil
	}
	return entry.Insights, true, nil
}

// Put upserts the insight set for the key, stamping it with the current time.
// A single SET of one JSON document makes concurrent population races safe:
// the later write wins.
func (c *InsightCache) Put(ctx context.Context, topic string, resultCount int, insights []models.Insight) error {
	entry := models.CacheEntry{
		Topic:       topic,
		ResultCount: resultCount,
		Insights:    insights,
		GeneratedAt: c.now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, key(topic, resultCount), data, c.retention).Err(); err != nil {
		return err
	}
	c.logger.Printf("cached %d insights for %q (n=%d)", len(insights), topic, resultCount)
	return nil
}
