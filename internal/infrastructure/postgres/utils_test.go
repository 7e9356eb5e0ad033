package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/trade-ledger/internal/domain"
)

func TestInsertError_DuplicateIDIsInvalidInput(t *testing.T) {
	err := insertError("create inbound", &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	other := errors.New("connection refused")
	err = insertError("create inbound", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRowsAffectedOrNotFound(t *testing.T) {
	assert.ErrorIs(t, rowsAffectedOrNotFound(0), domain.ErrNotFound)
	assert.NoError(t, rowsAffectedOrNotFound(1))
}
