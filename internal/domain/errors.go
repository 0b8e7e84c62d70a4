package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidQuantity        = errors.New("cantidad inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrDuplicateLine          = errors.New("item ya agregado")
	ErrHasDependents          = errors.New("el recurso tiene dependientes")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")

	// ErrSerializationFailure lo devuelven los adaptadores ante serialization_failure o deadlock.
	// El ledger lo reintenta y, agotados los intentos, lo convierte en ErrConflict.
	ErrSerializationFailure = errors.New("fallo de serialización de la transacción")
)

// StockError detalla un ErrInsufficientStock: qué SKU, en qué holder y bucket faltó cantidad.
type StockError struct {
	SKUCodeID string
	HolderID  string
	Bucket    string
	Requested int64
	Available int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para sku %s en %s (%s): solicitado %d, disponible %d",
		e.SKUCodeID, e.HolderID, e.Bucket, e.Requested, e.Available)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *StockError) Unwrap() error { return ErrInsufficientStock }
