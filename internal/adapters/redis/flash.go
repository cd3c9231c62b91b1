package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"travel_catalog/internal/adapters/observability"
	"travel_catalog/internal/domain"
)

// FlashStore keeps per-session flash messages in a Redis list with a TTL.
type FlashStore struct {
	c   *redis.Client
	ttl time.Duration
}

var _ domain.FlashStore = (*FlashStore)(nil)

func New(addr, pass string, db int, ttl time.Duration) *FlashStore {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl)
}

func NewWithClient(c *redis.Client, ttl time.Duration) *FlashStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FlashStore{c: c, ttl: ttl}
}

func flashKey(session string) string { return "flash:" + session }

func (s *FlashStore) Ping(ctx context.Context) error { return s.c.Ping(ctx).Err() }

func (s *FlashStore) Close() error { return s.c.Close() }

func (s *FlashStore) Push(ctx context.Context, session string, f domain.Flash) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	key := flashKey(session)
	_, err = s.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, b)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		observability.ObserveFlash("redis", "error")
		return err
	}
	observability.ObserveFlash("redis", "push")
	return nil
}

// Pop returns and clears the session's messages in one transaction.
func (s *FlashStore) Pop(ctx context.Context, session string) ([]domain.Flash, error) {
	key := flashKey(session)
	var lr *redis.StringSliceCmd
	_, err := s.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		lr = p.LRange(ctx, key, 0, -1)
		p.Del(ctx, key)
		return nil
	})
	if err != nil {
		observability.ObserveFlash("redis", "error")
		return nil, err
	}
	raw := lr.Val()
	out := make([]domain.Flash, 0, len(raw))
	for _, v := range raw {
		var f domain.Flash
		if err := json.Unmarshal([]byte(v), &f); err != nil {
			continue // skip entries we can't read
		}
		out = append(out, f)
	}
	if len(out) > 0 {
		observability.ObserveFlash("redis", "pop")
	}
	return out, nil
}
