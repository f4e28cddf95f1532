package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/google/uuid"
	"github.com/mentorly/mentorly-backend/internal/platform/envutil"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
)

// WeakTopicCache fronts the topic-accuracy store with a short-lived cached
// copy of each user's weakest-topic ranking. A miss returns (nil, false, nil).
type WeakTopicCache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]string, bool, error)
	Set(ctx context.Context, userID uuid.UUID, topics []string) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
	Close() error
}

type weakTopicCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewWeakTopicCache(log *logger.Logger) (WeakTopicCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(envutil.Str("REDIS_ADDR", ""))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := envutil.Duration("WEAK_TOPIC_CACHE_TTL", 5*time.Minute)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &weakTopicCache{
		log: log.With("client", "WeakTopicCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(userID uuid.UUID) string {
	return "weak_topics:" + userID.String()
}

func (c *weakTopicCache) Get(ctx context.Context, userID uuid.UUID) ([]string, bool, error) {
	if userID == uuid.Nil {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, cacheKey(userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var topics []string
	if err := json.Unmarshal([]byte(raw), &topics); err != nil {
		// A corrupt entry behaves like a miss; the caller refills it.
		c.log.Warn("dropping unreadable cache entry", "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, cacheKey(userID)).Err()
		return nil, false, nil
	}
	return topics, true, nil
}

func (c *weakTopicCache) Set(ctx context.Context, userID uuid.UUID, topics []string) error {
	if userID == uuid.Nil {
		return nil
	}
	if topics == nil {
		topics = []string{}
	}
	raw, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *weakTopicCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	if err := c.rdb.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *weakTopicCache) Close() error {
	return c.rdb.Close()
}
