package domain

import "errors"

// Erros de colaborador (infraestrutura) e de programação.
// Negações de política NÃO são erros: veja DenyReason.
var (
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrUnknownSubject       = errors.New("unknown subject")
	ErrConfig               = errors.New("config error")
	ErrDuplicateInteraction = errors.New("duplicate interaction")
	ErrInvalidAction        = errors.New("invalid action")
)

func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsRetryable indica se o chamador pode tentar de novo (o engine nunca tenta).
func IsRetryable(err error) bool {
	return IsStorageError(err)
}
