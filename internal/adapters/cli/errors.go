package cli

import (
	"errors"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
)

// messageKey maps a domain error to its translation key. This is the single
// place where workflow failures become user-facing text.
func messageKey(err error) string {
	switch {
	case errors.Is(err, domain.ErrSinSesion):
		return "err.sin_sesion"
	case errors.Is(err, domain.ErrNoAutorizado):
		return "err.no_autorizado"
	case errors.Is(err, domain.ErrActividadNoHay):
		return "err.actividad_no_hay"
	case errors.Is(err, domain.ErrParticipanteNoHay):
		return "err.participante_no_hay"
	default:
		return "err.generic"
	}
}
