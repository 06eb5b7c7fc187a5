package application

import (
	"context"
	"errors"
	"time"

	"tapgate/gating/domain"
)

// ErrNoSlot indica que nenhuma vaga foi obtida dentro do prazo.
var ErrNoSlot = errors.New("no slot available")

// ConcurrencyService limita quantas decisões estão em voo ao mesmo tempo,
// protegendo os stores compartilhados de rajadas. Sem HTTP.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta obter uma vaga.
//   - AcquireTimeout <= 0: espera até o ctx encerrar.
//   - AcquireTimeout > 0: espera no máximo o timeout.
//
// Com erro, nenhuma vaga foi obtida e release é nil.
func (s ConcurrencyService) Acquire(ctx context.Context) (release func(), err error) {
	if s.Pool == nil {
		return func() {}, nil
	}

	if s.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.AcquireTimeout)
		defer cancel()
	}

	release, ok := s.Pool.Acquire(ctx)
	if !ok {
		return nil, ErrNoSlot
	}
	return release, nil
}
