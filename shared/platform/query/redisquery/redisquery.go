// Package redisquery evalúa query.Queryable sobre colecciones guardadas en Redis:
// un hash con los elementos serializados en JSON y un sorted set por columna
// ordenable.
//
//	<ns>:items          hash   id -> JSON
//	<ns>:idx:<column>   zset   id con score numérico
package redisquery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/davicafu/pagesort/shared/platform/query"
)

var (
	ErrUnindexedColumn = errors.New("column has no redis index")
	ErrMissingItem     = errors.New("indexed item missing from redis hash")
)

// Index define una columna ordenable y cómo calcular su score.
type Index[T any] struct {
	Column string
	Score  func(T) float64
}

// Collection agrupa las claves de una colección y sabe escribir en ellas.
type Collection[T any] struct {
	rdb     redis.Cmdable
	ns      string
	id      func(T) string
	indexes []Index[T]
}

// NewCollection crea una colección. El primer índice es el índice base:
// se usa para contar y para listar cuando no hay orden.
func NewCollection[T any](rdb redis.Cmdable, ns string, id func(T) string, indexes ...Index[T]) *Collection[T] {
	if len(indexes) == 0 {
		panic("redisquery: at least one index is required")
	}
	return &Collection[T]{rdb: rdb, ns: ns, id: id, indexes: indexes}
}

func (c *Collection[T]) itemsKey() string {
	return c.ns + ":items"
}

func (c *Collection[T]) indexKey(column string) string {
	return c.ns + ":idx:" + column
}

// Put guarda los elementos y actualiza todos los índices en una transacción.
func (c *Collection[T]) Put(ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return nil
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range items {
			id := c.id(item)
			data, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", id, err)
			}
			pipe.HSet(ctx, c.itemsKey(), id, data)
			for _, idx := range c.indexes {
				pipe.ZAdd(ctx, c.indexKey(idx.Column), &redis.Z{Score: idx.Score(item), Member: id})
			}
		}
		return nil
	})
	return err
}

// Get lee un elemento por id. ok es false si no existe.
func (c *Collection[T]) Get(ctx context.Context, id string) (item T, ok bool, err error) {
	data, err := c.rdb.HGet(ctx, c.itemsKey(), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return item, false, nil
	}
	if err != nil {
		return item, false, err
	}
	if err := json.Unmarshal(data, &item); err != nil {
		return item, false, fmt.Errorf("unmarshal %s: %w", id, err)
	}
	return item, true, nil
}

// Clear borra el hash y todos los índices de la colección.
func (c *Collection[T]) Clear(ctx context.Context) error {
	keys := []string{c.itemsKey()}
	for _, idx := range c.indexes {
		keys = append(keys, c.indexKey(idx.Column))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Query devuelve una consulta sobre toda la colección, en orden del índice base.
func (c *Collection[T]) Query() *Query[T] {
	return &Query[T]{coll: c}
}

func (c *Collection[T]) indexed(column string) bool {
	for _, idx := range c.indexes {
		if idx.Column == column {
			return true
		}
	}
	return false
}

// ---------- Query ----------

type Query[T any] struct {
	coll   *Collection[T]
	sort   *query.Sort
	window query.Window
}

// OrderBy no comprueba el índice: un orden sin índice falla al evaluar.
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

// Count lee el ZCARD del índice base y le aplica la ventana.
func (q *Query[T]) Count(ctx context.Context) (int, error) {
	if q.window.Empty() {
		return 0, nil
	}
	n, err := q.coll.rdb.ZCard(ctx, q.coll.indexKey(q.coll.indexes[0].Column)).Result()
	if err != nil {
		return 0, err
	}
	return q.window.Apply(int(n)), nil
}

func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	column := q.coll.indexes[0].Column
	desc := false
	if q.sort != nil {
		column, desc = q.sort.Field, q.sort.Desc
	}
	if !q.coll.indexed(column) {
		return nil, fmt.Errorf("%w: %q", ErrUnindexedColumn, column)
	}
	if q.window.Empty() {
		return []T{}, nil
	}

	start, stop := q.rangeBounds()
	key := q.coll.indexKey(column)

	var ids []string
	var err error
	if desc {
		ids, err = q.coll.rdb.ZRevRange(ctx, key, start, stop).Result()
	} else {
		ids, err = q.coll.rdb.ZRange(ctx, key, start, stop).Result()
	}
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []T{}, nil
	}

	raw, err := q.coll.rdb.HMGet(ctx, q.coll.itemsKey(), ids...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingItem, ids[i])
		}
		var item T
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", ids[i], err)
		}
		out = append(out, item)
	}
	return out, nil
}

// rangeBounds traduce la ventana a los índices inclusivos de ZRANGE (-1 = hasta el final).
func (q *Query[T]) rangeBounds() (int64, int64) {
	start := int64(q.window.Offset)
	if !q.window.Limited {
		return start, -1
	}
	return start, start + int64(q.window.Limit) - 1
}

var _ query.Queryable[struct{}] = (*Query[struct{}])(nil)
