package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tapgate/gating"
	"tapgate/gating/application"
	"tapgate/gating/domain"
	"tapgate/gating/infra"
)

// Exemplo: a mesma API com stores em memória, sem Redis nem Postgres.
// Sobe com três subjects de demonstração e imprime tokens de 24h para eles.
func main() {
	logger := infra.NewLogger("development")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	clock := infra.SystemClock{Location: time.UTC}
	counters := infra.NewMemoryCounterStore()
	counters.StartJanitor(ctx, clock, time.Hour)

	tiers := infra.NewMemoryTierDirectory(map[domain.Subject]domain.Tier{
		"alice": domain.TierFree,
		"bob":   domain.TierFree,
		"carol": domain.TierPremium,
	})

	engine := application.Engine{
		Policy:   application.MustTierPolicy(application.DefaultTierTable()),
		Counters: counters,
		Ledger:   infra.NewMemoryLedger(),
		Clock:    clock,
		Stats:    infra.NewMemoryStatsStore(),
		Logger:   &logger,
	}

	buckets := infra.NewBucketStore(5, 10)
	buckets.StartJanitor(ctx)

	tokens := gating.NewTokenService("example-secret", "tapgate")
	for _, s := range []domain.Subject{"alice", "bob", "carol"} {
		tok, err := tokens.Issue(s, 24*time.Hour)
		if err != nil {
			logger.Fatal().Err(err).Msg("issue token")
		}
		logger.Info().Str("subject", string(s)).Str("token", tok).Msg("demo token")
	}

	h := gating.NewRouter(gating.RouterOptions{
		Engine:      engine,
		Tiers:       tiers,
		Tokens:      tokens,
		Logger:      logger,
		Throttle:    gating.ThrottleOptions{Store: buckets, AddHeaders: true},
		Concurrency: gating.ConcurrencyOptions{Max: 50},
		CORSOrigins: []string{"*"},
	})

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("example server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
}
