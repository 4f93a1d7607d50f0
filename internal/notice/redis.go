package notice

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"vending-console/pkg/logging"

	"github.com/redis/go-redis/v9"
)

const noticeKey = "vending_console:notices"

// RedisStore keeps notices in a sorted set scored by creation time
type RedisStore struct {
	client   *redis.Client
	ttl      time.Duration
	capacity int64
	now      func() time.Time
}

// NewRedisStore connects to redisURL and checks the connection
func NewRedisStore(redisURL string, capacity int, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, capacity, ttl), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, capacity int, ttl time.Duration) *RedisStore {
	if capacity <= 0 {
		capacity = 50
	}
	return &RedisStore{client: client, ttl: ttl, capacity: int64(capacity), now: time.Now}
}

// Notify stores n, keeping the newest capacity entries and dropping expired ones
func (r *RedisStore) Notify(ctx context.Context, n Notice) {
	data, err := json.Marshal(n)
	if err != nil {
		logging.LogError("notice", "Notify", "marshal notice", n.ID, err)
		return
	}

	score := float64(n.CreatedAt.UnixMilli())
	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, noticeKey, redis.Z{Score: score, Member: data})
	// keep only the newest entries
	pipe.ZRemRangeByRank(ctx, noticeKey, 0, -r.capacity-1)
	if r.ttl > 0 {
		cutoff := n.CreatedAt.Add(-r.ttl).UnixMilli()
		pipe.ZRemRangeByScore(ctx, noticeKey, "-inf", "("+strconv.FormatInt(cutoff, 10))
		pipe.Expire(ctx, noticeKey, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logging.LogError("notice", "Notify", "store notice", n.ID, err)
	}
}

// Recent returns unexpired notices, newest first
func (r *RedisStore) Recent(ctx context.Context, limit int) ([]Notice, error) {
	lower := "-inf"
	if r.ttl > 0 {
		lower = strconv.FormatInt(r.now().Add(-r.ttl).UnixMilli(), 10)
	}
	opt := &redis.ZRangeBy{Min: lower, Max: "+inf"}
	if limit > 0 {
		opt.Count = int64(limit)
	}
	members, err := r.client.ZRevRangeByScore(ctx, noticeKey, opt).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read notices: %w", err)
	}

	out := make([]Notice, 0, len(members))
	for _, m := range members {
		var n Notice
		if err := json.Unmarshal([]byte(m), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// Close closes the underlying client
func (r *RedisStore) Close() error {
	return r.client.Close()
}
