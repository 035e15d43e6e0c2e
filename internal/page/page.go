package page

import (
	"errors"

	"gitlab.com/dirk.krummacker/addressbook/internal/model"
)

// DefaultSize is the number of records shown on one page.
const DefaultSize = 5

// ErrInvalidSize is returned for a page size below one.
var ErrInvalidSize = errors.New("page: size must be positive")

// Page is an order preserving slice of a record collection.
type Page struct {
	// Number is the 1-based page number.
	Number int
	// Offset is the position of the first record of the page within the whole collection.
	Offset  int
	Records []*model.Record
}

// Index returns the 1-based number of the i-th record of the page within the whole collection.
// Numbering continues across pages.
func (p Page) Index(i int) int {
	return p.Offset + i + 1
}

// Paginate splits records into consecutive pages of size records; only the last page may be
// shorter. No records means no pages.
func Paginate(records []*model.Record, size int) ([]Page, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	pages := make([]Page, 0, (len(records)+size-1)/size)
	for offset := 0; offset < len(records); offset += size {
		pages = append(pages, Page{
			Number:  len(pages) + 1,
			Offset:  offset,
			Records: records[offset:min(offset+size, len(records))],
		})
	}
	return pages, nil
}
