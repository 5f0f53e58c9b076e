// Package ports define los contratos que la capa de aplicación espera de la infraestructura.
package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Commit si fn devuelve nil, Rollback en otro caso. Los conflictos de concurrencia
// se reintentan internamente; agotar el presupuesto -> domain.ErrTransactionRetryExceeded.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Registry) error) error
}

var knownErrors = []error{
	domain.ErrNotFound,
	domain.ErrUserNotFound,
	domain.ErrEmailAlreadyExists,
	domain.ErrInvalidInput,
	domain.ErrDuplicate,
	domain.ErrUnauthorized,
	domain.ErrForbidden,
	domain.ErrNotProvisioned,
	domain.ErrInvalidQuantity,
	domain.ErrInsufficientBalance,
	domain.ErrDuplicateItem,
	domain.ErrBackendUnavailable,
	domain.ErrTransactionRetryExceeded,
	domain.ErrPartialWrite,
}

// StoreError deja pasar los errores de dominio y envuelve cualquier otro en
// domain.ErrBackendUnavailable, conservando el detalle.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
}
