package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// ErrNotFound cubre también el acceso a recursos de otro tenant: se responde
// igual que si el recurso no existiera para no filtrar existencia entre tenants.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInvalidInput      = errors.New("entrada inválida")
)
