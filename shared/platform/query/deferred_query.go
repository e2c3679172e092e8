package query

import "context"

// DeferredQuery aplaza la carga de la consulta real hasta Count o List.
// OrderBy, Skip y Take se guardan y se reaplican sobre cada carga.
type DeferredQuery[T any] struct {
	load func(ctx context.Context) (Queryable[T], error)
	ops  []func(Queryable[T]) Queryable[T]
}

// Defer crea una consulta que llama a load en cada evaluación.
func Defer[T any](load func(ctx context.Context) (Queryable[T], error)) *DeferredQuery[T] {
	return &DeferredQuery[T]{load: load}
}

func (q *DeferredQuery[T]) with(op func(Queryable[T]) Queryable[T]) *DeferredQuery[T] {
	ops := make([]func(Queryable[T]) Queryable[T], len(q.ops), len(q.ops)+1)
	copy(ops, q.ops)
	return &DeferredQuery[T]{load: q.load, ops: append(ops, op)}
}

func (q *DeferredQuery[T]) OrderBy(key SortKey[T], desc bool) Queryable[T] {
	return q.with(func(inner Queryable[T]) Queryable[T] { return inner.OrderBy(key, desc) })
}

func (q *DeferredQuery[T]) Skip(n int) Queryable[T] {
	return q.with(func(inner Queryable[T]) Queryable[T] { return inner.Skip(n) })
}

func (q *DeferredQuery[T]) Take(n int) Queryable[T] {
	return q.with(func(inner Queryable[T]) Queryable[T] { return inner.Take(n) })
}

func (q *DeferredQuery[T]) Count(ctx context.Context) (int, error) {
	inner, err := q.resolve(ctx)
	if err != nil {
		return 0, err
	}
	return inner.Count(ctx)
}

func (q *DeferredQuery[T]) List(ctx context.Context) ([]T, error) {
	inner, err := q.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return inner.List(ctx)
}

func (q *DeferredQuery[T]) resolve(ctx context.Context) (Queryable[T], error) {
	inner, err := q.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, op := range q.ops {
		inner = op(inner)
	}
	return inner, nil
}

var _ Queryable[struct{}] = (*DeferredQuery[struct{}])(nil)
