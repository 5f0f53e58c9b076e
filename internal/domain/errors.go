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
	ErrNotProvisioned     = errors.New("usuario autenticado sin perfil")
)

// Errores del protocolo kardex + saldo.
var (
	// ErrInvalidQuantity cantidad no numérica, no finita o <= 0. Se rechaza antes de escribir.
	ErrInvalidQuantity = errors.New("cantidad inválida")
	// ErrInsufficientBalance una salida dejaría el saldo negativo. La transacción aborta sin escribir.
	ErrInsufficientBalance = errors.New("saldo insuficiente")
	// ErrDuplicateItem ya existe una roca con ese nombre en la empresa.
	ErrDuplicateItem = errors.New("ya existe una roca con ese nombre en la empresa")
	// ErrBackendUnavailable el almacén no respondió; el usuario puede reintentar.
	ErrBackendUnavailable = errors.New("almacén no disponible")
	// ErrTransactionRetryExceeded se agotaron los reintentos por contención.
	ErrTransactionRetryExceeded = errors.New("reintentos de transacción agotados")
	// ErrPartialWrite el saldo no coincide con la suma del kardex; requiere conciliación manual.
	ErrPartialWrite = errors.New("saldo y kardex inconsistentes")
)
