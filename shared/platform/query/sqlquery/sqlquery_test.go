package sqlquery

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	sharedDomain "github.com/davicafu/pagesort/shared/domain"
	"github.com/davicafu/pagesort/shared/platform/query"
)

type product struct {
	ID    int
	Name  string
	Price int
	Kind  string
}

var (
	productName  = query.Key("Name", "name", func(p product) string { return p.Name })
	productPrice = query.Key("Price", "price", func(p product) int { return p.Price })
	productID    = query.Key("ID", "id", func(p product) int { return p.ID })

	productFields = query.NewSortFields(productName, productPrice, productID)
)

func scanProduct(row RowScanner) (product, error) {
	var p product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Kind)
	return p, err
}

// setupSQLite crea una base en memoria con 25 productos (id 1..25).
func setupSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Cada conexión a :memory: es una base distinta.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		kind TEXT NOT NULL
	)`)
	require.NoError(t, err)

	for i := 1; i <= 25; i++ {
		kind := "book"
		if i%2 == 0 {
			kind = "game"
		}
		_, err := db.Exec(`INSERT INTO products (id, name, price, kind) VALUES (?, ?, ?, ?)`,
			i, fmt.Sprintf("product-%02d", i), (i*7)%31, kind)
		require.NoError(t, err)
	}
	return db
}

func newProducts(db *sql.DB) *Query[product] {
	return New[product](db, SQLite, "products", []string{"id", "name", "price", "kind"}, scanProduct)
}

func TestQuery_PaginateSQLite(t *testing.T) {
	db := setupSQLite(t)

	q, err := query.OrderBySortField[product](newProducts(db), ptr("ID"), ptr("ASC"), productFields, productID)
	require.NoError(t, err)

	res, err := query.Paginate(context.Background(), q, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 3, res.LastPage)
	assert.Equal(t, 21, res.From)
	assert.Equal(t, 30, res.To)
	require.Len(t, res.Data, 5)
	assert.Equal(t, 21, res.Data[0].ID)
	assert.Equal(t, 25, res.Data[4].ID)
}

func TestQuery_DefaultOrderIsDescending(t *testing.T) {
	db := setupSQLite(t)

	q, err := query.OrderBySortField[product](newProducts(db), nil, nil, productFields, productID)
	require.NoError(t, err)

	list, err := q.Take(3).List(context.Background())
	require.NoError(t, err)

	require.Len(t, list, 3)
	assert.Equal(t, []int{25, 24, 23}, []int{list[0].ID, list[1].ID, list[2].ID})
}

func TestQuery_WhereCriteria(t *testing.T) {
	db := setupSQLite(t)

	q := newProducts(db).Where(sharedDomain.And(
		sharedDomain.Conditions{{Field: "kind", Op: sharedDomain.OpEq, Value: "game"}},
		sharedDomain.Conditions{{Field: "id", Op: sharedDomain.OpLte, Value: 10}},
	))

	n, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	ordered := q.OrderBy(productID, false)
	list, err := ordered.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 5)
	for _, p := range list {
		assert.Equal(t, "game", p.Kind)
	}
}

func TestQuery_WhereOr(t *testing.T) {
	db := setupSQLite(t)

	q := newProducts(db).Where(sharedDomain.Or(
		sharedDomain.Conditions{{Field: "id", Op: sharedDomain.OpEq, Value: 1}},
		sharedDomain.Conditions{{Field: "id", Op: sharedDomain.OpEq, Value: 2}},
	))

	n, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestQuery_ILikeFallsBackToLike(t *testing.T) {
	db := setupSQLite(t)

	q := newProducts(db).Where(sharedDomain.Conditions{
		{Field: "name", Op: sharedDomain.OpILike, Value: "%PRODUCT-1%"},
	})

	n, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n) // product-10 .. product-19
}

func TestQuery_CountRespectsWindow(t *testing.T) {
	db := setupSQLite(t)

	n, err := newProducts(db).Skip(20).Take(10).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = newProducts(db).Skip(5).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestQuery_UnknownColumnFailsAtEvaluation(t *testing.T) {
	db := setupSQLite(t)
	broken := query.SortKey[product]{Name: "Missing", Column: "missing_column"}

	q := newProducts(db).OrderBy(broken, true)

	_, err := q.List(context.Background())
	assert.Error(t, err)
}

func TestQuery_IsImmutable(t *testing.T) {
	db := setupSQLite(t)
	base := newProducts(db)

	_ = base.Where(sharedDomain.Conditions{{Field: "kind", Op: sharedDomain.OpEq, Value: "book"}})
	_ = base.Skip(5).Take(2)

	n, err := base.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, n)
}

func TestQuery_PostgresSQL(t *testing.T) {
	q := New[product](nil, Postgres, "products", []string{"id", "name"}, scanProduct).
		Where(sharedDomain.Conditions{
			{Field: "kind", Op: sharedDomain.OpEq, Value: "game"},
			{Field: "name", Op: sharedDomain.OpILike, Value: "%x%"},
		}).
		OrderBy(productName, true).
		Skip(20).
		Take(10)

	sqlStr, args, err := q.(*Query[product]).SelectSQL()
	require.NoError(t, err)

	assert.Contains(t, sqlStr, "SELECT id, name FROM products WHERE")
	assert.Contains(t, sqlStr, "kind = $1")
	assert.Contains(t, sqlStr, "name ILIKE $2")
	assert.Contains(t, sqlStr, "ORDER BY name DESC")
	assert.Contains(t, sqlStr, "LIMIT 10")
	assert.Contains(t, sqlStr, "OFFSET 20")
	assert.Equal(t, []any{"game", "%x%"}, args)

	countSQL, _, err := q.(*Query[product]).CountSQL()
	require.NoError(t, err)
	assert.Contains(t, countSQL, "SELECT COUNT(*) FROM (SELECT 1 FROM products")
	assert.NotContains(t, countSQL, "ORDER BY")
}

func TestQuery_SQLiteOffsetWithoutTake(t *testing.T) {
	q := newProducts(nil).Skip(3)

	sqlStr, _, err := q.(*Query[product]).SelectSQL()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "LIMIT 9223372036854775807")
	assert.Contains(t, sqlStr, "OFFSET 3")
}

func ptr(s string) *string { return &s }
