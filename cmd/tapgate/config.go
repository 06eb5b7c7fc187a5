package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tapgate/gating/application"
	"tapgate/gating/domain"
)

type config struct {
	listenAddr string
	appEnv     string
	jwtSecret  string
	jwtIssuer  string

	databaseURL string

	redisAddr      string
	redisPassword  string
	redisDB        int
	counterBackend string
	counterPrefix  string
	counterTTL     time.Duration

	location           *time.Location
	separateLikeBucket bool
	policy             application.TierPolicy

	throttleRPS   float64
	throttleBurst int
	retryAfter    time.Duration
	throttleHdrs  bool
	trustXFF      bool

	concurrencyMax     int
	concurrencyTimeout time.Duration

	corsOrigins []string

	statsEnabled       bool
	statsPrefix        string
	statsTTL           time.Duration
	statsTrackSubjects bool
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.appEnv = getenvDefault("APP_ENV", "production")
	cfg.jwtSecret = os.Getenv("JWT_SECRET")
	cfg.jwtIssuer = getenvDefault("JWT_ISSUER", "tapgate")

	cfg.databaseURL = os.Getenv("DATABASE_URL")

	cfg.redisAddr = os.Getenv("REDIS_ADDR")
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.redisDB = getenvIntDefault("REDIS_DB", 0)
	cfg.counterBackend = strings.ToLower(getenvDefault("COUNTER_BACKEND", "redis"))
	cfg.counterPrefix = getenvDefault("COUNTER_PREFIX", "tapgate:usage")
	cfg.counterTTL = getenvDurationDefault("COUNTER_TTL", 48*time.Hour)

	loc, err := time.LoadLocation(getenvDefault("TIMEZONE", "UTC"))
	if err != nil {
		return config{}, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.location = loc

	switch bucket := strings.ToLower(getenvDefault("LIKE_BUCKET", "shared")); bucket {
	case "shared":
	case "separate":
		cfg.separateLikeBucket = true
	default:
		return config{}, fmt.Errorf("LIKE_BUCKET must be shared or separate, got %q", bucket)
	}

	cfg.policy, err = readTierPolicy()
	if err != nil {
		return config{}, err
	}

	cfg.throttleRPS = getenvFloatDefault("THROTTLE_RPS", 5)
	cfg.throttleBurst = getenvIntDefault("THROTTLE_BURST", 20)
	cfg.retryAfter = getenvDurationDefault("RETRY_AFTER", time.Second)
	cfg.throttleHdrs = getenvBoolDefault("THROTTLE_HEADERS", false)
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 200)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 2*time.Second)

	cfg.corsOrigins = splitList(os.Getenv("CORS_ORIGINS"))

	cfg.statsEnabled = getenvBoolDefault("STATS_ENABLED", true)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "tapgate:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 7*24*time.Hour)
	cfg.statsTrackSubjects = getenvBoolDefault("STATS_TRACK_SUBJECTS", false)

	if cfg.jwtSecret == "" {
		return config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.databaseURL == "" {
		return config{}, errors.New("DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.redisAddr) == "" {
		return config{}, errors.New("REDIS_ADDR is required")
	}
	if cfg.counterBackend != "redis" && cfg.counterBackend != "postgres" {
		return config{}, fmt.Errorf("COUNTER_BACKEND must be redis or postgres, got %q", cfg.counterBackend)
	}
	if cfg.throttleRPS <= 0 {
		return config{}, errors.New("THROTTLE_RPS must be > 0")
	}
	if cfg.throttleBurst <= 0 {
		return config{}, errors.New("THROTTLE_BURST must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	return cfg, nil
}

// readTierPolicy aplica overrides <TIER>_MAX_VISIBLE, <TIER>_MAX_DAILY_TAPS e
// <TIER>_MAX_DAILY_MESSAGES sobre a tabela padrão. -1 = sem teto.
func readTierPolicy() (application.TierPolicy, error) {
	table := application.DefaultTierTable()
	for _, tier := range domain.Tiers() {
		prefix := strings.ToUpper(string(tier)) + "_"
		l := table[tier]
		if v, ok := getenvInt(prefix + "MAX_VISIBLE"); ok {
			l.MaxVisibleProfiles = v
		}
		if v, ok := getenvInt(prefix + "MAX_DAILY_TAPS"); ok {
			l.MaxDailyTaps = domain.Limit(v)
		}
		if v, ok := getenvInt(prefix + "MAX_DAILY_MESSAGES"); ok {
			l.MaxDailyMessages = domain.Limit(v)
		}
		table[tier] = l
	}
	return application.NewTierPolicy(table)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	if i, ok := getenvInt(k); ok {
		return i
	}
	return def
}

func getenvInt(k string) (int, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
