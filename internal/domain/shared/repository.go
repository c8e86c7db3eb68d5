package shared

import "context"

// Window is an offset/limit slice of a result set
type Window struct {
	Skip int
	Take int
}

// DefaultWindow returns the window used when the caller gives none
func DefaultWindow() Window {
	return Window{Skip: 0, Take: 50}
}

// Normalize clamps negative values and caps Take at max
func (w Window) Normalize(max int) Window {
	if w.Skip < 0 {
		w.Skip = 0
	}
	if w.Take <= 0 {
		w.Take = DefaultWindow().Take
	}
	if max > 0 && w.Take > max {
		w.Take = max
	}
	return w
}

// Page is a window of items plus the total match count
type Page[T any] struct {
	Items []T
	Total int64
	Skip  int
	Take  int
}

// NewPage creates a page from items and total
func NewPage[T any](items []T, total int64, w Window) Page[T] {
	return Page[T]{Items: items, Total: total, Skip: w.Skip, Take: w.Take}
}

// UnitOfWork runs fn inside one transaction. R is the set of
// transaction-scoped repositories handed to fn. Returning an error rolls
// everything back.
type UnitOfWork[R any] interface {
	Do(ctx context.Context, fn func(repos R) error) error
}
