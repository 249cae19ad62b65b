package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-api/internal/domain"
)

func TestReadError_IDMalformadoEsNotFound(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	err := readError("get product", pgErr)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, isNoRows(fmt.Errorf("scan: %w", pgErr)))
	assert.True(t, isNoRows(pgx.ErrNoRows))
}

func TestReadError_OtrosErroresSePropagan(t *testing.T) {
	boom := errors.New("conexión perdida")
	err := readError("list products", boom)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, isNoRows(boom))
}

func TestWriteError_Traducciones(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{"23505", domain.ErrDuplicate},
		{"23503", domain.ErrInvalidInput},
		{"22P02", domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := writeError("insert product", &pgconn.PgError{Code: tc.code})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
