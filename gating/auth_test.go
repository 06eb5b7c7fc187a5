package gating

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	s := NewTokenService("secret", "tapgate")
	tok, err := s.Issue("alice", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	subject, err := s.Validate(tok)
	if err != nil || subject != "alice" {
		t.Fatalf("expected alice, got %q %v", subject, err)
	}
}

func TestTokenService_RejectsBadTokens(t *testing.T) {
	s := NewTokenService("secret", "tapgate")

	expired, _ := s.Issue("alice", -time.Minute)
	if _, err := s.Validate(expired); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	other, _ := NewTokenService("other", "tapgate").Issue("alice", time.Minute)
	if _, err := s.Validate(other); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	foreign, _ := NewTokenService("secret", "someone-else").Issue("alice", time.Minute)
	if _, err := s.Validate(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}

	anon, _ := s.Issue("", time.Minute)
	if _, err := s.Validate(anon); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without subject, got %v", err)
	}
}

func TestAuthenticate_PutsSubjectInContext(t *testing.T) {
	s := NewTokenService("secret", "tapgate")
	var got string
	h := Authenticate(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ := SubjectFrom(r.Context())
		got = string(subject)
	}))

	tok, _ := s.Issue("alice", time.Minute)
	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("Authorization", "bearer "+tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK || got != "alice" {
		t.Fatalf("expected 200 for alice, got %d %q", w.Code, got)
	}

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer garbage"} {
		r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, w.Code)
		}
	}
}
