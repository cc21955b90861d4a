package domain

import "errors"

// Domain errors.
var (
	ErrSinSesion          = errors.New("no hay sesión autenticada")
	ErrNoAutorizado       = errors.New("solo un organizador puede apuntar a participantes de otra cuenta")
	ErrParticipanteNoHay  = errors.New("participante no encontrado")
	ErrActividadNoHay     = errors.New("actividad no encontrada")
	ErrInscripcionNoHay   = errors.New("inscripción no encontrada")
	ErrNombreVacio        = errors.New("el nombre no puede estar vacío")
	ErrMetodoPagoInvalido = errors.New("método de pago no válido")
)
