package infra

import (
	"context"
	"strings"
	"time"

	"tapgate/gating/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore grava as decisões em hashes:
//
//	<prefix>:total           allowed|denied
//	<prefix>:day:<YYYYMMDD>  allowed|denied (com TTL)
//	<prefix>:action          <action>:allowed|<action>:denied
//	<prefix>:reason          <reason>
//	<prefix>:tier            <tier>:allowed|<tier>:denied
//	<prefix>:subject:<id>    allowed|denied (opt-in, com TTL)
type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica só nas chaves por dia / por subject. total é cumulativo.
	ttl time.Duration

	trackSubjects bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsTrackSubjects(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackSubjects = track }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "tapgate:stats",
		ttl:    7 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	dayKey := s.prefix + ":day:" + at.UTC().Format("20060102")
	pipe.HIncrBy(ctx, dayKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, dayKey, s.ttl)
	}

	if ev.Action != "" {
		pipe.HIncrBy(ctx, s.prefix+":action", string(ev.Action)+":"+field, 1)
	}
	if !ev.Allowed && ev.Reason != "" {
		pipe.HIncrBy(ctx, s.prefix+":reason", string(ev.Reason), 1)
	}
	if ev.Tier != "" {
		pipe.HIncrBy(ctx, s.prefix+":tier", string(ev.Tier)+":"+field, 1)
	}

	if s.trackSubjects {
		if subj := strings.TrimSpace(string(ev.Subject)); subj != "" {
			subjKey := s.prefix + ":subject:" + subj
			pipe.HIncrBy(ctx, subjKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, subjKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
