package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/futurebank/fbsim/internal/model"
)

const (
	redisSummaryPrefix = "fbsim:summary:"
	redisRunPrefix     = "fbsim:run:"
	redisRunIndex      = "fbsim:runs"
)

// RedisCache stores run summaries as JSON documents in Redis.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewRedisCache returns a cache backed by the Redis server at addr.
// Entries expire after ttl; zero keeps them forever.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: rdb,
		ctx:    context.Background(),
		ttl:    ttl,
	}
}

// Ping checks that the server is reachable.
func (r *RedisCache) Ping() error {
	return r.client.Ping(r.ctx).Err()
}

// Close closes the Redis client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// SaveSummary stores the run metadata and its summary.
func (r *RedisCache) SaveSummary(info model.RunInfo, s model.Summary) error {
	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now()
	}
	info.FinalMedian, info.FinalMean, info.ProbLoss = s.FinalMedian, s.FinalMean, s.ProbLoss

	summaryJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	infoJSON, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding run info: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(r.ctx, redisSummaryPrefix+info.Key, summaryJSON, r.ttl)
	pipe.Set(r.ctx, redisRunPrefix+info.Key, infoJSON, r.ttl)
	pipe.ZAdd(r.ctx, redisRunIndex, redis.Z{Score: float64(info.CreatedAt.Unix()), Member: info.Key})
	_, err = pipe.Exec(r.ctx)
	return err
}

// LoadSummary returns the cached summary for key. ok is false on a miss.
func (r *RedisCache) LoadSummary(key string) (model.Summary, bool, error) {
	val, err := r.client.Get(r.ctx, redisSummaryPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Summary{}, false, nil
	}
	if err != nil {
		return model.Summary{}, false, err
	}

	var s model.Summary
	if err := json.Unmarshal(val, &s); err != nil {
		return model.Summary{}, false, fmt.Errorf("decoding summary: %w", err)
	}
	return s, true, nil
}

// ListRuns returns the most recent runs, newest first. Expired entries still
// present in the index are pruned.
func (r *RedisCache) ListRuns(limit int) ([]model.RunInfo, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	keys, err := r.client.ZRevRange(r.ctx, redisRunIndex, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	var runs []model.RunInfo
	for _, key := range keys {
		val, err := r.client.Get(r.ctx, redisRunPrefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			_ = r.client.ZRem(r.ctx, redisRunIndex, key).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		var info model.RunInfo
		if err := json.Unmarshal(val, &info); err != nil {
			return nil, fmt.Errorf("decoding run info: %w", err)
		}
		runs = append(runs, info)
	}
	return runs, nil
}

// DeleteRun removes a run and its summary.
func (r *RedisCache) DeleteRun(key string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(r.ctx, redisSummaryPrefix+key, redisRunPrefix+key)
	pipe.ZRem(r.ctx, redisRunIndex, key)
	_, err := pipe.Exec(r.ctx)
	return err
}

// RunCount returns the number of indexed runs.
func (r *RedisCache) RunCount() (int, error) {
	n, err := r.client.ZCard(r.ctx, redisRunIndex).Result()
	return int(n), err
}
