package query

import (
	"strconv"
	"strings"
)

// PaginateQuery appends id based paging to a query whose filter is wrapped
// in brackets, numbering any new placeholders after args.
//
//	PaginateQuery("SELECT ... WHERE (donor_wallet = $1)", args, cursor, 10, Descending)
//	> "SELECT ... WHERE (donor_wallet = $1) AND id < $2 ORDER BY id DESC LIMIT $3"
func PaginateQuery(query string, args []interface{}, cursor Cursor, limit uint64, direction Ordering) (string, []interface{}) {
	comparison, order := ">", "ASC"
	if direction != Ascending {
		comparison, order = "<", "DESC"
	}

	var sb strings.Builder
	sb.WriteString(query)

	bind := func(clause string, arg interface{}) {
		args = append(args, arg)
		sb.WriteString(clause + " $" + strconv.Itoa(len(args)))
	}

	if len(cursor) > 0 {
		bind(" AND id "+comparison, cursor.ToUint64())
	}
	sb.WriteString(" ORDER BY id " + order)
	if limit > 0 {
		bind(" LIMIT", limit)
	}

	return sb.String(), args
}
