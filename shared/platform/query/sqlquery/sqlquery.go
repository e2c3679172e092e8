// Package sqlquery evalúa query.Queryable contra una base de datos SQL
// (Postgres, SQLite, ClickHouse) construyendo las sentencias con squirrel.
package sqlquery

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/Masterminds/squirrel"

	sharedDomain "github.com/davicafu/pagesort/shared/domain"
	"github.com/davicafu/pagesort/shared/platform/query"
	sharedUtils "github.com/davicafu/pagesort/shared/utils"
)

// ---------- Dialectos ----------

// Dialect recoge las diferencias entre motores que afectan a la consulta.
type Dialect struct {
	Name        string
	Placeholder squirrel.PlaceholderFormat
	// ILike indica si el motor entiende ILIKE; si no, se usa LIKE.
	ILike bool
	// OffsetNeedsLimit: el motor no acepta OFFSET sin LIMIT.
	OffsetNeedsLimit bool
}

var (
	Postgres   = Dialect{Name: "postgres", Placeholder: squirrel.Dollar, ILike: true}
	SQLite     = Dialect{Name: "sqlite", Placeholder: squirrel.Question, OffsetNeedsLimit: true}
	ClickHouse = Dialect{Name: "clickhouse", Placeholder: squirrel.Question, ILike: true, OffsetNeedsLimit: true}
)

// ---------- Query ----------

// Querier lo cumplen *sql.DB, *sql.Conn y *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RowScanner es la parte de *sql.Rows que necesita una ScanFunc.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanFunc convierte la fila actual (columnas en el orden de New) en un T.
type ScanFunc[T any] func(row RowScanner) (T, error)

// Query es una consulta SELECT perezosa sobre una tabla.
type Query[T any] struct {
	db      Querier
	dialect Dialect
	table   string
	columns []string
	where   squirrel.Sqlizer
	sort    *query.Sort
	window  query.Window
	scan    ScanFunc[T]
}

// New crea una consulta sin filtro, orden ni ventana.
func New[T any](db Querier, dialect Dialect, table string, columns []string, scan ScanFunc[T]) *Query[T] {
	return &Query[T]{
		db:      db,
		dialect: dialect,
		table:   table,
		columns: columns,
		scan:    scan,
	}
}

// Where añade criteria (en AND con los filtros previos).
func (q *Query[T]) Where(criteria sharedDomain.Criteria) *Query[T] {
	cond := ToSqlizer(criteria, q.dialect)
	if cond == nil {
		return q
	}
	c := *q
	if q.where == nil {
		c.where = cond
	} else {
		c.where = squirrel.And{q.where, cond}
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

// Count ejecuta un SELECT COUNT(*). Si hay ventana se cuenta sobre una subconsulta.
func (q *Query[T]) Count(ctx context.Context) (int, error) {
	sqlStr, args, err := q.CountSQL()
	if err != nil {
		return 0, err
	}

	var n int
	if err := q.db.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// List ejecuta el SELECT con orden, OFFSET y LIMIT.
func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	sqlStr, args, err := q.SelectSQL()
	if err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := q.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// SelectSQL devuelve la sentencia que ejecutaría List.
func (q *Query[T]) SelectSQL() (string, []any, error) {
	return q.selectBuilder(q.columns...).PlaceholderFormat(q.dialect.Placeholder).ToSql()
}

// CountSQL devuelve la sentencia que ejecutaría Count.
func (q *Query[T]) CountSQL() (string, []any, error) {
	var b squirrel.SelectBuilder
	if q.window == (query.Window{}) {
		b = q.filtered("COUNT(*)")
	} else {
		// El orden no cambia el número de filas de la ventana.
		inner := q.filtered("1")
		inner = q.applyWindow(inner)
		b = squirrel.Select("COUNT(*)").FromSelect(inner, "w")
	}
	return b.PlaceholderFormat(q.dialect.Placeholder).ToSql()
}

func (q *Query[T]) filtered(columns ...string) squirrel.SelectBuilder {
	b := squirrel.Select(columns...).From(q.table)
	if q.where != nil {
		b = b.Where(q.where)
	}
	return b
}

func (q *Query[T]) selectBuilder(columns ...string) squirrel.SelectBuilder {
	b := q.filtered(columns...)
	if q.sort != nil {
		b = b.OrderBy(fmt.Sprintf("%s %s", q.sort.Field, sharedUtils.Ternary(q.sort.Desc, "DESC", "ASC")))
	}
	return q.applyWindow(b)
}

func (q *Query[T]) applyWindow(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	w := q.window
	if w.Offset > 0 {
		b = b.Offset(uint64(w.Offset))
	}
	switch {
	case w.Limited:
		b = b.Limit(uint64(w.Limit))
	case w.Offset > 0 && q.dialect.OffsetNeedsLimit:
		b = b.Limit(math.MaxInt64)
	}
	return b
}

var _ query.Queryable[struct{}] = (*Query[struct{}])(nil)
