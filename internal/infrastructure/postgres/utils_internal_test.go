package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/service-stock-api/internal/domain"
)

func pgErr(code string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, Message: "x"})
}

func TestWrap_CodigosPostgres(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{"40001", domain.ErrSerializationFailure},
		{"40P01", domain.ErrSerializationFailure},
		{"23514", domain.ErrInsufficientStock},
		{"22P02", domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.ErrorIs(t, wrap("op", pgErr(tc.code)), tc.want)
		})
	}
	assert.NoError(t, wrap("op", nil))

	other := errors.New("conexión cerrada")
	assert.ErrorIs(t, wrap("op", other), other, "el resto se envuelve sin traducir")
}

func TestIdMalFormado_EsNoEncontrado(t *testing.T) {
	assert.True(t, isNoRow(pgx.ErrNoRows))
	assert.True(t, isNoRow(pgErr("22P02")), "un id que no es uuid no puede existir")
	assert.False(t, isNoRow(pgErr("23505")))

	assert.True(t, missingRef(pgErr("23503")))
	assert.True(t, missingRef(pgErr("22P02")))
	assert.False(t, missingRef(pgErr("23514")))
}

func TestCatalogWriteErr(t *testing.T) {
	assert.ErrorIs(t, catalogWriteErr("insert", pgErr("23505")), domain.ErrDuplicate)
	assert.ErrorIs(t, catalogWriteErr("insert", pgErr("23503")), domain.ErrNotFound)
	assert.ErrorIs(t, catalogWriteErr("insert", pgErr("22P02")), domain.ErrNotFound, "padre con id mal formado")
	assert.NoError(t, catalogWriteErr("insert", nil))
}
