package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
)

func TestCheckNoRows(t *testing.T) {
	errNotFound := errors.New("not found")
	other := errors.New("other")

	assert.Equal(t, errNotFound, CheckNoRows(sql.ErrNoRows, errNotFound))
	assert.Equal(t, errNotFound, CheckNoRows(fmt.Errorf("select: %w", sql.ErrNoRows), errNotFound))
	assert.Equal(t, other, CheckNoRows(other, errNotFound))
	assert.NoError(t, CheckNoRows(nil, errNotFound))
}

func TestCheckUniqueViolation(t *testing.T) {
	errExists := errors.New("exists")
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	serialization := &pgconn.PgError{Code: pgerrcode.SerializationFailure}

	assert.Equal(t, errExists, CheckUniqueViolation(unique, errExists))
	assert.Equal(t, errExists, CheckUniqueViolation(fmt.Errorf("insert: %w", unique), errExists))
	assert.Equal(t, serialization, CheckUniqueViolation(serialization, errExists))
	assert.NoError(t, CheckUniqueViolation(nil, errExists))

	assert.True(t, IsSerializationFailure(serialization))
	assert.False(t, IsSerializationFailure(unique))
	assert.False(t, IsSerializationFailure(nil))
}
