// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package relation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dhirajsah18/v-Tube/internal/platform/constants"
)

// setIfVersion stores ARGV[1] under KEYS[1] only while the generation in
// KEYS[2] still equals ARGV[2]. ARGV[3] is the TTL in milliseconds, 0 for none.
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[2] then
  return 0
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

/*
RedisCountCache keeps derived counts in Redis with a TTL.

Every count key has a generation counter next to it. Invalidate bumps the
generation and Set carries the generation seen by the matching Get, so a load
that raced an invalidation cannot write its stale result back.
*/
type RedisCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCountCache returns a count cache backed by client.
func NewRedisCountCache(client *redis.Client, ttl time.Duration) *RedisCountCache {
	return &RedisCountCache{client: client, ttl: ttl}
}

func countKey(key string) string   { return constants.RedisPrefixRelationCount + key }
func versionKey(key string) string { return constants.RedisPrefixRelationCountVersion + key }

// Get returns a cached count and the key's generation. A missing key is a
// miss, not an error.
func (cache *RedisCountCache) Get(context context.Context, key string) (CachedCount, error) {
	values, err := cache.client.MGet(context, countKey(key), versionKey(key)).Result()
	if err != nil {
		return CachedCount{}, fmt.Errorf("relation_cache_get_failed: %w", err)
	}

	var entry CachedCount
	if raw, ok := values[1].(string); ok {
		if entry.Version, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return CachedCount{}, fmt.Errorf("relation_cache_bad_version: %w", err)
		}
	}

	if raw, ok := values[0].(string); ok {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return CachedCount{}, fmt.Errorf("relation_cache_bad_value: %w", err)
		}
		entry.Value, entry.Hit = value, true
	}

	return entry, nil
}

// Set stores a count until the TTL elapses or the key is invalidated. It is a
// no-op when the key was invalidated after the Get that returned version.
func (cache *RedisCountCache) Set(context context.Context, key string, value int, version int64) error {
	err := setIfVersion.Run(context, cache.client,
		[]string{countKey(key), versionKey(key)},
		value, strconv.FormatInt(version, 10), cache.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("relation_cache_set_failed: %w", err)
	}
	return nil
}

// Invalidate drops the given keys and bumps their generations.
func (cache *RedisCountCache) Invalidate(context context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := cache.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Del(context, countKey(key))
			pipe.Incr(context, versionKey(key))
			pipe.Expire(context, versionKey(key), constants.RelationCountVersionTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("relation_cache_invalidate_failed: %w", err)
	}
	return nil
}
