package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ---------- Direcciones de ordenación ----------

const (
	SortAscending  = "ASC"
	SortDescending = "DESC"
)

var ErrInvalidFieldReference = errors.New("invalid field reference")

// ---------- Claves de ordenación ----------

// SortKey describe un campo ordenable de T.
// Column lo usan los adaptadores de base de datos; Compare la evaluación en memoria.
type SortKey[T any] struct {
	Name    string
	Column  string
	Compare func(a, b T) int
}

// Key crea una clave a partir de un getter de tipo ordenable.
func Key[T any, K cmp.Ordered](name, column string, get func(T) K) SortKey[T] {
	return SortKey[T]{
		Name:   name,
		Column: column,
		Compare: func(a, b T) int {
			return cmp.Compare(get(a), get(b))
		},
	}
}

// TimeKey crea una clave para campos time.Time.
func TimeKey[T any](name, column string, get func(T) time.Time) SortKey[T] {
	return SortKey[T]{
		Name:   name,
		Column: column,
		Compare: func(a, b T) int {
			return get(a).Compare(get(b))
		},
	}
}

// SortFields es la tabla de campos ordenables de una entidad, indexada por nombre público.
type SortFields[T any] map[string]SortKey[T]

func NewSortFields[T any](keys ...SortKey[T]) SortFields[T] {
	fields := make(SortFields[T], len(keys))
	for _, k := range keys {
		fields[k.Name] = k
	}
	return fields
}

// Lookup busca primero el nombre exacto y después sin distinguir mayúsculas.
func (f SortFields[T]) Lookup(name string) (SortKey[T], bool) {
	if k, ok := f[name]; ok {
		return k, true
	}
	candidates := make([]string, 0, len(f))
	for k := range f {
		candidates = append(candidates, k)
	}
	slices.Sort(candidates)
	for _, candidate := range candidates {
		if strings.EqualFold(candidate, name) {
			return f[candidate], true
		}
	}
	return SortKey[T]{}, false
}

// ---------- Ordenación dinámica ----------

// OrderBySortField ordena q por sortField en la dirección sortDirection.
// Si falta alguno de los dos se ordena de forma descendente por defaultKey.
// Cualquier dirección distinta de "ASC" (incluida "") ordena descendente.
func OrderBySortField[T any](q Queryable[T], sortField, sortDirection *string, fields SortFields[T], defaultKey SortKey[T]) (Queryable[T], error) {
	if sortField == nil || sortDirection == nil {
		return q.OrderBy(defaultKey, true), nil
	}

	key, ok := fields.Lookup(*sortField)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFieldReference, *sortField)
	}

	switch strings.ToUpper(*sortDirection) {
	case SortAscending:
		return q.OrderBy(key, false), nil
	case SortDescending:
		return q.OrderBy(key, true), nil
	default:
		return q.OrderBy(key, true), nil
	}
}

// OrderByRequest aplica OrderBySortField con el campo y la dirección de req.
func OrderByRequest[T any](q Queryable[T], req Request, fields SortFields[T], defaultKey SortKey[T]) (Queryable[T], error) {
	return OrderBySortField(q, req.SortField, req.SortDirection, fields, defaultKey)
}
