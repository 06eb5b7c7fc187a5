package gating

import (
	"net/http"

	"tapgate/gating/application"
	"tapgate/gating/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type RouterOptions struct {
	Engine application.Engine
	Tiers  domain.TierSource
	Tokens *TokenService
	Logger zerolog.Logger

	Throttle    ThrottleOptions
	Concurrency ConcurrencyOptions
	CORSOrigins []string
}

// NewRouter monta o chi.Mux com a cadeia de middlewares descrita no doc do pacote.
func NewRouter(opts RouterOptions) *chi.Mux {
	h := Handlers{Engine: opts.Engine, Tiers: opts.Tiers, Logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(opts.Logger))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Retry-After", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", Health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(ConcurrencyLimit(opts.Concurrency))
		r.Use(Authenticate(opts.Tokens))
		r.Use(Throttle(opts.Throttle))

		r.Post("/profiles/visible", h.VisibleProfiles)
		r.Post("/taps", h.SendTap)
		r.Post("/messages/gate", h.MessageGate)
		r.Get("/usage", h.Usage)
		r.Get("/interactions", h.History)
		r.Get("/likers", h.Likers)
	})

	return r
}
