package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Flujo de tareas
	ErrInvalidTransition       = errors.New("transición de estado no permitida")
	ErrStepLocked              = errors.New("el paso anterior aún no está completado")
	ErrRejectionReasonRequired = errors.New("el motivo de rechazo es obligatorio")
	ErrMissingPhotos           = errors.New("faltan fotos requeridas")

	// Usuarios
	ErrManagerNotAllowed = errors.New("solo los empleados pueden tener un jefe asignado")

	// ErrNameRequired es el error reportado por fila en la importación masiva.
	ErrNameRequired = errors.New("Name is required")
)
