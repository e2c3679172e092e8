package redisquery

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/pagesort/shared/platform/query"
)

type score struct {
	ID     string `json:"id"`
	Player string `json:"player"`
	Points int    `json:"points"`
}

var (
	scorePoints = query.Key("Points", "points", func(s score) int { return s.Points })
	scorePlayer = query.Key("Player", "player", func(s score) string { return s.Player })
	scoreFields = query.NewSortFields(scorePoints, scorePlayer)
)

func newScores(rdb redis.Cmdable, ns string) *Collection[score] {
	return NewCollection(rdb, ns, func(s score) string { return s.ID },
		Index[score]{Column: "points", Score: func(s score) float64 { return float64(s.Points) }},
	)
}

// offlineClient no abre conexión hasta el primer comando.
func offlineClient() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func TestRangeBounds(t *testing.T) {
	base := newScores(offlineClient(), "scores").Query()

	tests := []struct {
		name      string
		q         query.Queryable[score]
		wantStart int64
		wantStop  int64
	}{
		{"sin ventana", base, 0, -1},
		{"skip", base.Skip(5), 5, -1},
		{"skip y take", base.Skip(20).Take(10), 20, 29},
		{"take", base.Take(3), 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, stop := tt.q.(*Query[score]).rangeBounds()
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantStop, stop)
		})
	}
}

func TestList_UnindexedColumn(t *testing.T) {
	q := newScores(offlineClient(), "scores").Query().OrderBy(scorePlayer, false)

	_, err := q.List(context.Background())
	assert.ErrorIs(t, err, ErrUnindexedColumn)
}

func TestEmptyWindowDoesNotTouchRedis(t *testing.T) {
	q := newScores(offlineClient(), "scores").Query().Take(0)

	n, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := q.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ---------- Integración (REDIS_ADDR) ----------

func setupRedis(t *testing.T) (*Collection[score], *redis.Client) {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	coll := newScores(rdb, "test:"+uuid.NewString())
	t.Cleanup(func() { _ = coll.Clear(context.Background()) })

	var items []score
	for i := 1; i <= 25; i++ {
		items = append(items, score{ID: fmt.Sprintf("s%02d", i), Player: fmt.Sprintf("p%02d", i), Points: i * 10})
	}
	require.NoError(t, coll.Put(context.Background(), items...))
	return coll, rdb
}

func TestRedis_Paginate(t *testing.T) {
	coll, _ := setupRedis(t)
	ctx := context.Background()

	q, err := query.OrderBySortField[score](coll.Query(), ptr("points"), ptr("DESC"), scoreFields, scorePoints)
	require.NoError(t, err)

	res, err := query.Paginate(ctx, q, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 3, res.LastPage)
	assert.Equal(t, 21, res.From)
	assert.Equal(t, 30, res.To)
	require.Len(t, res.Data, 5)
	assert.Equal(t, 50, res.Data[0].Points)
	assert.Equal(t, 10, res.Data[4].Points)
}

func TestRedis_AscendingAndWindowedCount(t *testing.T) {
	coll, _ := setupRedis(t)
	ctx := context.Background()

	q := coll.Query().OrderBy(scorePoints, false).Skip(2).Take(3)

	list, err := q.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{30, 40, 50}, []int{list[0].Points, list[1].Points, list[2].Points})

	n, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRedis_MissingItem(t *testing.T) {
	coll, rdb := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rdb.HDel(ctx, coll.itemsKey(), "s01").Err())

	_, err := coll.Query().OrderBy(scorePoints, false).Take(1).List(ctx)
	assert.ErrorIs(t, err, ErrMissingItem)
}

func ptr(s string) *string { return &s }

func TestRedis_Get(t *testing.T) {
	coll, _ := setupRedis(t)
	ctx := context.Background()

	item, ok, err := coll.Get(ctx, "s07")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 70, item.Points)

	_, ok, err = coll.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
