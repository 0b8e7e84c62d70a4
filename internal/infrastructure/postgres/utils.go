package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/service-stock-api/internal/domain"
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
	if code := pgCode(err); code != "" {
		return code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isFKViolation 23503: la fila referenciada no existe o todavía tiene dependientes.
func isFKViolation(err error) bool {
	return pgCode(err) == "23503"
}

// isInvalidID 22P02 invalid_text_representation: un id que no es uuid.
// Ninguna fila puede tener ese id, así que equivale a "no existe".
func isInvalidID(err error) bool {
	return pgCode(err) == "22P02"
}

// isNoRow sin fila para el id buscado.
func isNoRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidID(err)
}

// missingRef la fila referenciada no existe (FK violada o id mal formado).
func missingRef(err error) bool {
	return isFKViolation(err) || isInvalidID(err)
}

// isCheckViolation 23514: CHECK (cantidad >= 0) de stock_positions.
func isCheckViolation(err error) bool {
	return pgCode(err) == "23514"
}

// isSerializationFailure 40001 serialization_failure o 40P01 deadlock_detected.
func isSerializationFailure(err error) bool {
	code := pgCode(err)
	return code == "40001" || code == "40P01"
}

// wrap traduce errores de PostgreSQL a errores de dominio; el resto se envuelve con op.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isSerializationFailure(err):
		return fmt.Errorf("%s: %w", op, domain.ErrSerializationFailure)
	case isCheckViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
	case isInvalidID(err):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// limitArg limit <= 0 significa sin límite (LIMIT NULL).
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
