// SPDX-License-Identifier: EPL-2.0

package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/ik5/soundscape/mixer"
)

// DefaultRedisKey is the hash holding exports, one field per id.
const DefaultRedisKey = "SOUNDSCAPE_EXPORTS"

// Hasher is the part of *redis.Client used by RedisSink.
type Hasher interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

type RedisSink struct {
	rdb Hasher
	key string
}

// NewRedisSink stores exports in the hash key, or DefaultRedisKey when key
// is empty.
func NewRedisSink(rdb Hasher, key string) *RedisSink {
	if key == "" {
		key = DefaultRedisKey
	}

	return &RedisSink{rdb: rdb, key: key}
}

// NewRedisClient connects the way the rest of the stack does: host, port,
// password and database number.
func NewRedisClient(host, port, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%v:%v", host, port),
		Password: password,
		DB:       db,
	})
}

func (s *RedisSink) Save(ctx context.Context, ex mixer.Export) (string, error) {
	b, err := json.Marshal(ex)
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}

	id := newID()
	if err := s.rdb.HSet(ctx, s.key, id, string(b)).Err(); err != nil {
		return "", fmt.Errorf("hset %v %v: %w", s.key, id, err)
	}

	return id, nil
}

// Get reads back a stored export. A missing id yields an error wrapping
// redis.Nil.
func (s *RedisSink) Get(ctx context.Context, id string) (mixer.Export, error) {
	var ex mixer.Export

	r0, err := s.rdb.HGet(ctx, s.key, id).Result()
	if err != nil {
		return ex, fmt.Errorf("hget %v %v: %w", s.key, id, err)
	}
	if err := json.Unmarshal([]byte(r0), &ex); err != nil {
		return ex, fmt.Errorf("unmarshal %v: %w", id, err)
	}

	return ex, nil
}
