package query

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var ErrUncomparableKey = errors.New("sort key has no comparator")

// SliceQuery evalúa la consulta en memoria sobre un slice.
type SliceQuery[T any] struct {
	items  []T
	key    *SortKey[T]
	desc   bool
	window Window
}

// FromSlice crea una consulta sobre items. El slice no se modifica nunca.
func FromSlice[T any](items []T) *SliceQuery[T] {
	return &SliceQuery[T]{items: items}
}

func (q *SliceQuery[T]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return q.window.Apply(len(q.items)), nil
}

func (q *SliceQuery[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := q.items
	if q.key != nil {
		if q.key.Compare == nil {
			return nil, fmt.Errorf("%w: %q", ErrUncomparableKey, q.key.Name)
		}
		compare := q.key.Compare
		if q.desc {
			compare = func(a, b T) int { return q.key.Compare(b, a) }
		}
		items = slices.Clone(items)
		slices.SortStableFunc(items, compare)
	}

	start, end := q.window.Bounds(len(items))
	return slices.Clone(items[start:end:end]), nil
}

func (q *SliceQuery[T]) OrderBy(key SortKey[T], desc bool) Queryable[T] {
	c := *q
	c.key = &key
	c.desc = desc
	return &c
}

func (q *SliceQuery[T]) Skip(n int) Queryable[T] {
	c := *q
	c.window = q.window.Skip(n)
	return &c
}

func (q *SliceQuery[T]) Take(n int) Queryable[T] {
	c := *q
	c.window = q.window.Take(n)
	return &c
}

var _ Queryable[int] = (*SliceQuery[int])(nil)
