package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateQuery(t *testing.T) {
	base := "SELECT * FROM donations WHERE (donor_wallet = $1)"

	query, opts := PaginateQuery(base, []interface{}{"donor"}, EmptyCursor, 10, Descending)
	assert.Equal(t, base+" ORDER BY id DESC LIMIT $2", query)
	assert.Equal(t, []interface{}{"donor", uint64(10)}, opts)

	query, opts = PaginateQuery(base, []interface{}{"donor"}, ToCursor(42), 10, Ascending)
	assert.Equal(t, base+" AND id > $2 ORDER BY id ASC LIMIT $3", query)
	assert.Equal(t, []interface{}{"donor", uint64(42), uint64(10)}, opts)

	query, opts = PaginateQuery(base, []interface{}{"donor"}, ToCursor(42), 0, Descending)
	assert.Equal(t, base+" AND id < $2 ORDER BY id DESC", query)
	assert.Equal(t, []interface{}{"donor", uint64(42)}, opts)
}

func TestDefaultPaginationHandler(t *testing.T) {
	req, err := DefaultPaginationHandler()
	require.NoError(t, err)
	assert.EqualValues(t, maxPageSize, req.Limit)
	assert.Equal(t, Ascending, req.SortBy)
	assert.Empty(t, req.Cursor)

	req, err = DefaultPaginationHandler(WithLimit(5), WithDirection(Descending), WithCursor(ToCursor(7)))
	require.NoError(t, err)
	assert.EqualValues(t, 5, req.Limit)
	assert.Equal(t, Descending, req.SortBy)
	assert.EqualValues(t, 7, req.Cursor.ToUint64())

	_, err = DefaultPaginationHandler(WithLimit(maxPageSize + 1))
	assert.Equal(t, ErrQueryNotSupported, err)

	_, err = DefaultPaginationHandler(WithCursor([]byte{1, 2, 3}))
	assert.Equal(t, ErrQueryNotSupported, err)
}

func TestCursor(t *testing.T) {
	cursor := ToCursor(1234)
	assert.EqualValues(t, 1234, cursor.ToUint64())

	decoded, err := CursorFromBase58(cursor.ToBase58())
	require.NoError(t, err)
	assert.Equal(t, cursor, decoded)

	_, err = CursorFromBase58("0OIl")
	assert.Error(t, err)

	_, err = CursorFromBase58(Cursor([]byte{1, 2, 3}).ToBase58())
	assert.Error(t, err)
}

func TestOrdering(t *testing.T) {
	for _, ordering := range []Ordering{Ascending, Descending} {
		parsed, err := ToOrdering(ordering.String())
		require.NoError(t, err)
		assert.Equal(t, ordering, parsed)
	}

	_, err := ToOrdering("sideways")
	assert.Error(t, err)
}
