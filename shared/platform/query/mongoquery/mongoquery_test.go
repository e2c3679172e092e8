package mongoquery

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedDomain "github.com/davicafu/pagesort/shared/domain"
	"github.com/davicafu/pagesort/shared/platform/query"
)

type article struct {
	ID    int    `bson:"_id"`
	Title string `bson:"title"`
	Views int    `bson:"views"`
}

var (
	articleViews = query.Key("Views", "views", func(a article) int { return a.Views })
	articleID    = query.Key("ID", "_id", func(a article) int { return a.ID })
	articleTitle = query.Key("Title", "title", func(a article) string { return a.Title })

	articleFields = query.NewSortFields(articleViews, articleID, articleTitle)
)

func decodeArticle(cur *mongo.Cursor) (article, error) {
	var a article
	err := cur.Decode(&a)
	return a, err
}

func TestFilterFromCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria sharedDomain.Criteria
		want     bson.D
	}{
		{
			name:     "nil",
			criteria: nil,
			want:     bson.D{},
		},
		{
			name:     "una condición",
			criteria: sharedDomain.Conditions{{Field: "status", Op: sharedDomain.OpEq, Value: "pending"}},
			want:     bson.D{{Key: "status", Value: bson.M{"$eq": "pending"}}},
		},
		{
			name: "varias condiciones en AND",
			criteria: sharedDomain.Conditions{
				{Field: "views", Op: sharedDomain.OpGte, Value: 10},
				{Field: "views", Op: sharedDomain.OpLt, Value: 20},
			},
			want: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "views", Value: bson.M{"$gte": 10}}},
				bson.D{{Key: "views", Value: bson.M{"$lt": 20}}},
			}}},
		},
		{
			name: "OR",
			criteria: sharedDomain.Or(
				sharedDomain.Conditions{{Field: "_id", Op: sharedDomain.OpEq, Value: 1}},
				sharedDomain.Conditions{{Field: "_id", Op: sharedDomain.OpEq, Value: 2}},
			),
			want: bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "_id", Value: bson.M{"$eq": 1}}},
				bson.D{{Key: "_id", Value: bson.M{"$eq": 2}}},
			}}},
		},
		{
			name:     "ILIKE",
			criteria: sharedDomain.Conditions{{Field: "title", Op: sharedDomain.OpILike, Value: "%go.dev%"}},
			want:     bson.D{{Key: "title", Value: bson.M{"$regex": `^.*go\.dev.*$`, "$options": "i"}}},
		},
		{
			name:     "LIKE con comodín simple",
			criteria: sharedDomain.Conditions{{Field: "title", Op: sharedDomain.OpLike, Value: "a_c"}},
			want:     bson.D{{Key: "title", Value: bson.M{"$regex": "^a.c$"}}},
		},
		{
			name:     "AND vacío",
			criteria: sharedDomain.And(),
			want:     bson.D{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterFromCriteria(tt.criteria))
		})
	}
}

func TestFindOptions(t *testing.T) {
	q := New[article](nil, decodeArticle).
		OrderBy(articleViews, true).
		Skip(20).
		Take(10)

	opts := q.(*Query[article]).FindOptions()

	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(20), *opts.Skip)
	assert.Equal(t, int64(10), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "views", Value: -1}}, opts.Sort)
}

func TestFindOptions_NoWindow(t *testing.T) {
	opts := New[article](nil, decodeArticle).FindOptions()

	assert.Nil(t, opts.Skip)
	assert.Nil(t, opts.Limit)
	assert.Nil(t, opts.Sort)
}

func TestEmptyWindowDoesNotQuery(t *testing.T) {
	// Sin colección: una ventana vacía no puede llegar al driver.
	q := New[article](nil, decodeArticle).Take(0)

	n, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := q.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ---------- Integración (MONGO_URI) ----------

func setupMongo(t *testing.T) *mongo.Collection {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping mongo integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	coll := client.Database("pagesort_test").Collection("articles_" + uuid.NewString())
	t.Cleanup(func() { _ = coll.Drop(context.Background()) })

	var docs []interface{}
	for i := 1; i <= 25; i++ {
		docs = append(docs, article{ID: i, Title: fmt.Sprintf("Article %02d", i), Views: i * 3})
	}
	_, err = coll.InsertMany(ctx, docs)
	require.NoError(t, err)
	return coll
}

func TestMongo_Paginate(t *testing.T) {
	coll := setupMongo(t)

	q, err := query.OrderBySortField[article](New(coll, decodeArticle), ptr("id"), ptr("ASC"), articleFields, articleID)
	require.NoError(t, err)

	res, err := query.Paginate(context.Background(), q, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 3, res.LastPage)
	require.Len(t, res.Data, 5)
	assert.Equal(t, 21, res.Data[0].ID)
}

func TestMongo_WhereAndWindowedCount(t *testing.T) {
	coll := setupMongo(t)
	ctx := context.Background()

	q := New(coll, decodeArticle).Where(sharedDomain.Conditions{
		{Field: "title", Op: sharedDomain.OpILike, Value: "%article 1%"},
	})

	n, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = q.Skip(8).Take(5).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func ptr(s string) *string { return &s }
