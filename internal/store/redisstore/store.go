package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "dxcases:"
	tagsKey   = keyPrefix + "tags"
	tagsTTL   = 10 * time.Minute
)

type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Store{rdb: rdb}, nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.rdb.Close()
}

func rateKey(scope, subject string, window time.Duration, now time.Time) string {
	bucket := now.UnixNano() / int64(window)
	return fmt.Sprintf("%sratelimit:%s:%s:%d", keyPrefix, scope, subject, bucket)
}

// Allow counts one hit for subject in the current fixed window and reports
// whether it is still within limit. A nil store allows everything.
func (s *Store) Allow(ctx context.Context, scope, subject string, limit int, window time.Duration) (bool, error) {
	if s == nil || limit <= 0 {
		return true, nil
	}
	key := rateKey(scope, subject, window, time.Now())

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

func (s *Store) CachedTags(ctx context.Context) ([]string, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	raw, err := s.rdb.Get(ctx, tagsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		// treat a corrupt entry as a miss; the next write replaces it
		return nil, false, nil
	}
	return tags, true, nil
}

func (s *Store) CacheTags(ctx context.Context, tags []string) error {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, tagsKey, b, tagsTTL).Err()
}

func (s *Store) InvalidateTags(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.rdb.Del(ctx, tagsKey).Err()
}
