package infra

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tapgate/gating/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore guarda cada contador numa chave
// "<prefix>:<subject>:<kind>:<day>" com TTL, então o dia anterior some sozinho.
type RedisCounterStore struct {
	rdb *redis.Client

	prefix string
	// ttl precisa cobrir o dia inteiro em qualquer fuso.
	ttl time.Duration
}

type RedisCounterOption func(*RedisCounterStore)

func WithCounterPrefix(prefix string) RedisCounterOption {
	return func(s *RedisCounterStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithCounterTTL(d time.Duration) RedisCounterOption {
	return func(s *RedisCounterStore) { s.ttl = d }
}

func NewRedisCounterStore(rdb *redis.Client, opts ...RedisCounterOption) *RedisCounterStore {
	s := &RedisCounterStore{
		rdb:    rdb,
		prefix: "tapgate:usage",
		ttl:    48 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// incrementBelowScript: KEYS[1]=contador, ARGV[1]=max, ARGV[2]=ttl em segundos.
// Devolve {novo valor, 1} ou {valor atual, 0}.
var incrementBelowScript = redis.NewScript(`
local n = tonumber(redis.call('GET', KEYS[1]) or '0')
if n >= tonumber(ARGV[1]) then
  return {n, 0}
end
n = redis.call('INCR', KEYS[1])
if tonumber(ARGV[2]) > 0 then
  redis.call('EXPIRE', KEYS[1], ARGV[2])
end
return {n, 1}
`)

func (s *RedisCounterStore) key(k domain.CounterKey) string {
	return fmt.Sprintf("%s:%s:%s:%s", s.prefix, k.Subject, k.Kind, k.Day)
}

func (s *RedisCounterStore) Current(ctx context.Context, key domain.CounterKey) (int, error) {
	n, err := s.rdb.Get(ctx, s.key(key)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("redis get counter", err)
	}
	return n, nil
}

func (s *RedisCounterStore) Increment(ctx context.Context, key domain.CounterKey) (int, error) {
	k := s.key(key)

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	if s.ttl > 0 {
		pipe.Expire(ctx, k, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, unavailable("redis incr counter", err)
	}
	return int(incr.Val()), nil
}

func (s *RedisCounterStore) IncrementBelow(ctx context.Context, key domain.CounterKey, max int) (int, bool, error) {
	res, err := incrementBelowScript.Run(ctx, s.rdb, []string{s.key(key)}, max, int64(s.ttl/time.Second)).Int64Slice()
	if err != nil {
		return 0, false, unavailable("redis increment below", err)
	}
	if len(res) != 2 {
		return 0, false, unavailable("redis increment below", fmt.Errorf("unexpected reply %v", res))
	}
	return int(res[0]), res[1] == 1, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}
