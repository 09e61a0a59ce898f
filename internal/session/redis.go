package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "kg:session:"
	redisMaxAttempts = 5
)

// RedisStore keeps sessions in Redis as JSON values so several kg serve
// processes can share them.
type RedisStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStore connects to the Redis server at url (redis://...) and
// verifies the connection.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisStore) Create(ctx context.Context) (*Session, error) {
	s := New()
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := r.rdb.Set(ctx, redisKey(s.ID), raw, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	return r.get(ctx, r.rdb, id)
}

// stringGetter is satisfied by both *goredis.Client and *goredis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

// get reads through c so it can run inside a WATCH transaction.
func (r *RedisStore) get(ctx context.Context, c stringGetter, id string) (*Session, error) {
	raw, err := c.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	if s.Learned == nil {
		s.Learned = make(map[string]bool)
	}
	return &s, nil
}

// Update runs fn under an optimistic WATCH on the session key, retrying when
// another writer got there first.
func (r *RedisStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	key := redisKey(id)
	var updated *Session

	txf := func(tx *goredis.Tx) error {
		s, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		raw, err := json.Marshal(s)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		if err == nil {
			updated = s
		}
		return err
	}

	for attempt := 0; attempt < redisMaxAttempts; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("updating session %s: too much contention", id)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, redisKey(id)).Err()
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
