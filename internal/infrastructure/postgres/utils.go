package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/rochas-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeInvalidTextRepr      = "22P02"
	codeNumericOutOfRange    = "22003"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isRetryable conflictos de concurrencia que se resuelven repitiendo la transacción completa.
func isRetryable(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// validID las columnas id son UUID: un texto que no lo es no puede existir en la tabla.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// wrapErr traduce los rechazos de datos de PostgreSQL a errores de dominio (no reintentables)
// y envuelve el resto con la operación.
func wrapErr(op string, err error) error {
	switch pgCode(err) {
	case codeInvalidTextRepr:
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, op, err)
	case codeNumericOutOfRange:
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidQuantity, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
