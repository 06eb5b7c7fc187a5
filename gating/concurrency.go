package gating

import (
	"net/http"
	"time"

	"tapgate/gating/application"
	"tapgate/gating/infra"
)

type ConcurrencyOptions struct {
	Max            int
	AcquireTimeout time.Duration
}

// ConcurrencyLimit limita requisições em voo. Max <= 0 desliga.
func ConcurrencyLimit(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	svc := application.ConcurrencyService{
		Pool:           infra.NewChanPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := svc.Acquire(r.Context())
			if err != nil {
				writeError(w, statusForError(err), "server busy")
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
