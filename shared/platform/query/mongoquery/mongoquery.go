// Package mongoquery evalúa query.Queryable contra una colección de MongoDB.
package mongoquery

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedDomain "github.com/davicafu/pagesort/shared/domain"
	"github.com/davicafu/pagesort/shared/platform/query"
	sharedUtils "github.com/davicafu/pagesort/shared/utils"
)

// DecodeFunc convierte el documento actual del cursor en un T.
type DecodeFunc[T any] func(cur *mongo.Cursor) (T, error)

// Query es un Find perezoso sobre una colección.
type Query[T any] struct {
	coll   *mongo.Collection
	filter bson.D
	sort   *query.Sort
	window query.Window
	decode DecodeFunc[T]
}

func New[T any](coll *mongo.Collection, decode DecodeFunc[T]) *Query[T] {
	return &Query[T]{coll: coll, filter: bson.D{}, decode: decode}
}

// Where añade criteria (en AND con los filtros previos).
func (q *Query[T]) Where(criteria sharedDomain.Criteria) *Query[T] {
	f := FilterFromCriteria(criteria)
	if len(f) == 0 {
		return q
	}
	c := *q
	if len(q.filter) == 0 {
		c.filter = f
	} else {
		c.filter = bson.D{{Key: "$and", Value: bson.A{q.filter, f}}}
	}
	return &c
}

func (q *Query[T]) OrderBy(key query.SortKey[T], desc bool) query.Queryable[T] {
	c := *q
	c.sort = &query.Sort{Field: key.Column, Desc: desc}
	return &c
}

func (q *Query[T]) Skip(n int) query.Queryable[T] {
	c := *q
	c.window = q.window.Skip(n)
	return &c
}

func (q *Query[T]) Take(n int) query.Queryable[T] {
	c := *q
	c.window = q.window.Take(n)
	return &c
}

// ---------- Evaluación ----------

// Count usa CountDocuments con el mismo skip/limit que List.
// En Mongo limit 0 significa "sin límite", por eso una ventana vacía no consulta.
func (q *Query[T]) Count(ctx context.Context) (int, error) {
	if q.window.Empty() {
		return 0, nil
	}

	opts := options.Count()
	if q.window.Offset > 0 {
		opts.SetSkip(int64(q.window.Offset))
	}
	if q.window.Limited {
		opts.SetLimit(int64(q.window.Limit))
	}

	n, err := q.coll.CountDocuments(ctx, q.filter, opts)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	if q.window.Empty() {
		return []T{}, nil
	}

	cursor, err := q.coll.Find(ctx, q.filter, q.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	for cursor.Next(ctx) {
		item, err := q.decode(cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOptions devuelve las opciones de paginación y orden que usaría List.
func (q *Query[T]) FindOptions() *options.FindOptions {
	opts := options.Find()
	if q.window.Offset > 0 {
		opts.SetSkip(int64(q.window.Offset))
	}
	if q.window.Limited {
		opts.SetLimit(int64(q.window.Limit))
	}
	if q.sort != nil {
		opts.SetSort(bson.D{{Key: q.sort.Field, Value: sharedUtils.Ternary(q.sort.Desc, -1, 1)}})
	}
	return opts
}

var _ query.Queryable[struct{}] = (*Query[struct{}])(nil)
