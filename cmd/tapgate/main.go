package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tapgate/gating"
	"tapgate/gating/application"
	"tapgate/gating/domain"
	"tapgate/gating/infra"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// .env é opcional (desenvolvimento)
	_ = godotenv.Load()

	boot := infra.NewLogger(os.Getenv("APP_ENV"))
	cfg, err := readConfig()
	if err != nil {
		boot.Fatal().Err(err).Msg("config error")
	}
	logger := infra.NewLogger(cfg.appEnv)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := infra.OpenPostgres(ctx, infra.DefaultPostgresConfig(cfg.databaseURL))
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := infra.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("postgres migrate")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.redisAddr,
		Password: cfg.redisPassword,
		DB:       cfg.redisDB,
	})
	defer func() { _ = rdb.Close() }()

	pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	err = rdb.Ping(pingCtx).Err()
	pingCancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("redis ping")
	}

	var stats domain.StatsStore
	if cfg.statsEnabled {
		stats = infra.NewRedisStatsStore(rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsTrackSubjects(cfg.statsTrackSubjects),
		)
	}

	// contadores no Redis por padrão; Postgres quando se quer um store só
	var counters domain.CounterStore = infra.NewRedisCounterStore(rdb,
		infra.WithCounterPrefix(cfg.counterPrefix),
		infra.WithCounterTTL(cfg.counterTTL),
	)
	if cfg.counterBackend == "postgres" {
		counters = infra.NewPostgresCounterStore(pool)
	}

	engine := application.Engine{
		Policy:             cfg.policy,
		Counters:           counters,
		Ledger:             infra.NewPostgresLedger(pool),
		Clock:              infra.SystemClock{Location: cfg.location},
		Stats:              stats,
		Logger:             &logger,
		SeparateLikeBucket: cfg.separateLikeBucket,
	}

	buckets := infra.NewBucketStore(cfg.throttleRPS, cfg.throttleBurst)
	buckets.StartJanitor(ctx)

	router := gating.NewRouter(gating.RouterOptions{
		Engine: engine,
		Tiers:  infra.NewPostgresTierDirectory(pool),
		Tokens: gating.NewTokenService(cfg.jwtSecret, cfg.jwtIssuer),
		Logger: logger,
		Throttle: gating.ThrottleOptions{
			Store:              buckets,
			TrustXForwardedFor: cfg.trustXFF,
			RetryAfter:         cfg.retryAfter,
			AddHeaders:         cfg.throttleHdrs,
		},
		Concurrency: gating.ConcurrencyOptions{
			Max:            cfg.concurrencyMax,
			AcquireTimeout: cfg.concurrencyTimeout,
		},
		CORSOrigins: cfg.corsOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logStartup(logger, cfg)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func logStartup(l zerolog.Logger, cfg config) {
	l.Info().Str("addr", cfg.listenAddr).Str("env", cfg.appEnv).Msg("tapgate listening")
	for _, tier := range domain.Tiers() {
		lim, _ := cfg.policy.LimitsFor(tier)
		l.Info().
			Str("tier", string(tier)).
			Int("max_visible", lim.MaxVisibleProfiles).
			Stringer("max_daily_taps", lim.MaxDailyTaps).
			Stringer("max_daily_messages", lim.MaxDailyMessages).
			Bool("unlimited_likes", lim.UnlimitedLikes).
			Bool("see_who_liked", lim.SeeWhoLiked).
			Bool("message_anyone", lim.CanMessageAnyone).
			Msg("tier limits")
	}
	l.Info().
		Str("timezone", cfg.location.String()).
		Str("counter_backend", cfg.counterBackend).
		Bool("separate_like_bucket", cfg.separateLikeBucket).
		Float64("throttle_rps", cfg.throttleRPS).
		Int("throttle_burst", cfg.throttleBurst).
		Int("concurrency_max", cfg.concurrencyMax).
		Dur("concurrency_timeout", cfg.concurrencyTimeout).
		Bool("stats", cfg.statsEnabled).
		Msg("gating config")
}
