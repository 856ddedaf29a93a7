package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrInvalidProcessCode   = errors.New("código de proceso inválido")
	ErrEmptyRouting         = errors.New("la lista de procesos está vacía")
	ErrUnknownPattern       = errors.New("patrón de ruta desconocido")
	ErrNothingToCopy        = errors.New("la ruta de origen no tiene procesos")
	ErrRoutingEntryNotFound = errors.New("paso de ruta no encontrado")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrProcessInUse         = errors.New("el proceso está referenciado por rutas o consumos")
	ErrLotInUse             = errors.New("el lote tiene consumos registrados")
)
