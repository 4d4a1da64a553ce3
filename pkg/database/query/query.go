package query

import (
	"github.com/pkg/errors"
)

var (
	ErrQueryNotSupported = errors.New("the requested query option is not supported")
)

const maxPageSize = 1000

// Page selects a run of records ordered by id. A page with a cursor starts
// after the record the cursor points at, in the page's direction.
type Page struct {
	SortBy Ordering
	Limit  uint64
	Cursor Cursor
}

type Option func(*Page) error

func WithDirection(val Ordering) Option {
	return func(p *Page) error {
		if val != Ascending && val != Descending {
			return ErrQueryNotSupported
		}
		p.SortBy = val
		return nil
	}
}

func WithLimit(val uint64) Option {
	return func(p *Page) error {
		if val > maxPageSize {
			return ErrQueryNotSupported
		}
		p.Limit = val
		return nil
	}
}

func WithCursor(val []byte) Option {
	return func(p *Page) error {
		if len(val) > 0 && len(val) != cursorSize {
			return ErrQueryNotSupported
		}
		p.Cursor = val
		return nil
	}
}

// DefaultPaginationHandler applies opts over an ascending page of up to
// maxPageSize records.
func DefaultPaginationHandler(opts ...Option) (*Page, error) {
	p := &Page{
		Limit:  maxPageSize,
		SortBy: Ascending,
	}
	for _, o := range opts {
		if err := o(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}
