package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so several bot replicas share them.
// Values are JSON, keyed per chat, stored without TTL.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func sessionKey(chatID int64) string { return fmt.Sprintf("quiz:session:%d", chatID) }

func (r *RedisStore) Get(ctx context.Context, chatID int64) (*Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, chatID int64, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionKey(chatID), raw, 0).Err()
}

func (r *RedisStore) Clear(ctx context.Context, chatID int64) error {
	return r.rdb.Del(ctx, sessionKey(chatID)).Err()
}
