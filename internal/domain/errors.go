package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// La capa de persistencia los envuelve con fmt.Errorf + %w;
// la capa HTTP los traduce a códigos de estado.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("entrada inválida")
	ErrReferential       = errors.New("referencia inexistente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
