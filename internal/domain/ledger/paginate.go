package ledger

import (
	"account_scanner/internal/domain/entity"

	"github.com/pkg/errors"
)

// PageSizes are the page sizes the presentation layer may request.
var PageSizes = []int{10, 20, 50}

// DefaultPageSize is used until the caller picks another allowed size.
const DefaultPageSize = 10

// ValidPageSize reports whether size is one of PageSizes.
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Window returns entries[page*pageSize : page*pageSize+pageSize] clipped to
// bounds. An out-of-range page yields an empty slice, never a panic.
func Window(entries []entity.LedgerEntry, page, pageSize int) ([]entity.LedgerEntry, error) {
	if !ValidPageSize(pageSize) {
		return nil, errors.Wrapf(entity.ErrInvalidPageSize, "page size %d not in %v", pageSize, PageSizes)
	}
	if page < 0 {
		return []entity.LedgerEntry{}, nil
	}
	start := page * pageSize
	if start >= len(entries) {
		return []entity.LedgerEntry{}, nil
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end], nil
}

// Pager windows one entry set for display. Whenever the underlying entries
// are replaced the page resets to zero, so a stale offset from a longer
// previous list can never hide data on a shorter new one.
type Pager struct {
	entries  []entity.LedgerEntry
	page     int
	pageSize int
}

// NewPager returns an empty pager with the default page size.
func NewPager() *Pager {
	return &Pager{pageSize: DefaultPageSize}
}

// Replace swaps in a new entry set and resets the page to zero.
func (p *Pager) Replace(entries []entity.LedgerEntry) {
	p.entries = entries
	p.page = 0
}

// SetPage moves to the given page. Out-of-range pages are allowed; Page then
// returns an empty window.
func (p *Pager) SetPage(page int) {
	p.page = page
}

// SetPageSize switches the page size. An actual size change resets the page
// to zero; re-asserting the current size keeps the position.
func (p *Pager) SetPageSize(size int) error {
	if !ValidPageSize(size) {
		return errors.Wrapf(entity.ErrInvalidPageSize, "page size %d not in %v", size, PageSizes)
	}
	if size != p.pageSize {
		p.pageSize = size
		p.page = 0
	}
	return nil
}

// CurrentPage returns the page the pager is positioned on.
func (p *Pager) CurrentPage() int {
	return p.page
}

// Page returns the current window.
func (p *Pager) Page() []entity.LedgerEntry {
	w, _ := Window(p.entries, p.page, p.pageSize)
	return w
}

// Len returns the size of the underlying entry set.
func (p *Pager) Len() int {
	return len(p.entries)
}
