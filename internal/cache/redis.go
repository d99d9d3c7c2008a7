package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/redis/go-redis/v9"
)

const (
	rankingKey    = "cricket:rankings"
	generationKey = "cricket:rankings:generation"
	defaultTTL    = 10 * time.Minute
)

// kv is the subset of Redis the ranking cache needs.
type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
	// SetIfEqual stores value at key only while guardKey still holds guard
	// (a missing guardKey counts as "0").
	SetIfEqual(ctx context.Context, guardKey, guard, key string, value any, ttl time.Duration) (bool, error)
}

// RedisClient wraps go-redis so results come back as plain values.
type RedisClient struct {
	*redis.Client
}

// NewRedisClient connects to a Redis server at addr.
func NewRedisClient(addr, password string) *RedisClient {
	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           0,
			MaxRetries:   3,
			PoolSize:     20,
			MinIdleConns: 2,
			PoolTimeout:  30 * time.Second,
		}),
	}
}

// Get returns the string value at key. A missing key yields redis.Nil.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return r.Client.Get(ctx, key).Result()
}

// Del removes key.
func (r *RedisClient) Del(ctx context.Context, key string) error {
	return r.Client.Del(ctx, key).Err()
}

// Incr increments the integer at key and returns the new value.
func (r *RedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return r.Client.Incr(ctx, key).Result()
}

var setIfEqualScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current == false then current = '0' end
if current ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// SetIfEqual runs the compare and the write as one script, so no other client
// can move guardKey in between.
func (r *RedisClient) SetIfEqual(ctx context.Context, guardKey, guard, key string, value any, ttl time.Duration) (bool, error) {
	n, err := setIfEqualScript.Run(ctx, r.Client, []string{guardKey, key}, guard, value, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Close the client connection.
func (r *RedisClient) Close() error {
	return r.Client.Close()
}

var _ RankingCache = (*Redis)(nil)

// Redis is a RankingCache shared between instances through a Redis key.
// The generation lives in Redis too, so an invalidation on one instance
// blocks a stale write from any other. Redis failures degrade to a cache miss.
type Redis struct {
	client kv
	ttl    time.Duration
}

// NewRedis builds a RankingCache on top of client. A zero ttl uses ten minutes.
func NewRedis(client kv, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context) ([]player.RankEntry, bool) {
	raw, err := r.client.Get(ctx, rankingKey)
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Warn("Ranking cache read failed", "error", err)
		return nil, false
	}
	var entries []player.RankEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warn("Ranking cache holds undecodable data", "error", err)
		return nil, false
	}
	return entries, true
}

func (r *Redis) Generation(ctx context.Context) (uint64, bool) {
	raw, err := r.client.Get(ctx, generationKey)
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		log.Warn("Ranking cache generation read failed", "error", err)
		return 0, false
	}
	gen, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		log.Warn("Ranking cache generation is not a number", "value", raw)
		return 0, false
	}
	return gen, true
}

func (r *Redis) Set(ctx context.Context, gen uint64, entries []player.RankEntry) bool {
	data, err := json.Marshal(entries)
	if err != nil {
		log.Warn("Failed to encode ranking for cache", "error", err)
		return false
	}
	stored, err := r.client.SetIfEqual(ctx, generationKey, strconv.FormatUint(gen, 10), rankingKey, string(data), r.ttl)
	if err != nil {
		log.Warn("Ranking cache write failed", "error", err)
		return false
	}
	if !stored {
		log.Debug("Ranking cache moved on, dropping stale ranking", "generation", gen)
	}
	return stored
}

// Invalidate bumps the generation before deleting, so a write racing with
// the delete fails its generation check.
func (r *Redis) Invalidate(ctx context.Context) {
	if _, err := r.client.Incr(ctx, generationKey); err != nil {
		log.Warn("Ranking cache generation bump failed", "error", err)
	}
	if err := r.client.Del(ctx, rankingKey); err != nil {
		log.Warn("Ranking cache invalidation failed", "error", err)
	}
}
