package application

import (
	"testing"
	"time"

	"tapgate/gating/domain"
)

type fakeLimiter struct {
	allow bool
}

func (f fakeLimiter) Allow() bool { return f.allow }

type fakeLimiterStore struct {
	lim  domain.Limiter
	keys []string
}

func (s *fakeLimiterStore) Get(key string) domain.Limiter {
	s.keys = append(s.keys, key)
	return s.lim
}

func TestThrottleService_Decide_AllowsWhenNoStore(t *testing.T) {
	svc := ThrottleService{}
	dec := svc.Decide("subject:alice")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
}

func TestThrottleService_Decide_EmptyKeySkipsStore(t *testing.T) {
	store := &fakeLimiterStore{lim: fakeLimiter{allow: false}}
	svc := ThrottleService{Store: store}
	if dec := svc.Decide(""); !dec.Allowed {
		t.Fatalf("expected allowed for empty key")
	}
	if len(store.keys) != 0 {
		t.Fatalf("expected store not to be consulted, got %v", store.keys)
	}
}

func TestThrottleService_Decide_AllowsWhenLimiterAllows(t *testing.T) {
	store := &fakeLimiterStore{lim: fakeLimiter{allow: true}}
	svc := ThrottleService{Store: store, RetryAfter: 5 * time.Second}
	if dec := svc.Decide("subject:alice"); !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if len(store.keys) != 1 || store.keys[0] != "subject:alice" {
		t.Fatalf("expected lookup by key, got %v", store.keys)
	}
}

func TestThrottleService_Decide_BlocksWithRetryAfterDefault(t *testing.T) {
	svc := ThrottleService{Store: &fakeLimiterStore{lim: fakeLimiter{allow: false}}}
	dec := svc.Decide("ip:10.0.0.1")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != time.Second {
		t.Fatalf("expected default RetryAfter=1s, got %s", dec.RetryAfter)
	}
}

func TestThrottleService_Decide_BlocksWithConfiguredRetryAfter(t *testing.T) {
	svc := ThrottleService{Store: &fakeLimiterStore{lim: fakeLimiter{allow: false}}, RetryAfter: 2500 * time.Millisecond}
	dec := svc.Decide("ip:10.0.0.1")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 2500*time.Millisecond {
		t.Fatalf("expected RetryAfter=2.5s, got %s", dec.RetryAfter)
	}
}
