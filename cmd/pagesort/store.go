package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/davicafu/pagesort/internal/config"
	taskDomain "github.com/davicafu/pagesort/internal/task/domain"
	taskCache "github.com/davicafu/pagesort/internal/task/infra/outbound/cache"
	taskMongo "github.com/davicafu/pagesort/internal/task/infra/outbound/db/mongodb"
	taskSQL "github.com/davicafu/pagesort/internal/task/infra/outbound/db/sqldb"
	taskFile "github.com/davicafu/pagesort/internal/task/infra/outbound/filesystem"
	"github.com/davicafu/pagesort/shared/platform/query/sqlquery"
)

// openStore crea el repositorio elegido por STORE. El func devuelto cierra la conexión.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (taskDomain.TaskRepository, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return openSQL(ctx, cfg, log, db, sqlquery.SQLite)

	case config.StorePostgres:
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return openSQL(ctx, cfg, log, db, sqlquery.Postgres)

	case config.StoreClickHouse:
		db := clickhouse.OpenDB(&clickhouse.Options{
			Addr: []string{cfg.ClickHouseAddr},
			Auth: clickhouse.Auth{Database: cfg.ClickHouseDB},
			Settings: clickhouse.Settings{
				"max_execution_time": 60,
			},
		})
		return openSQL(ctx, cfg, log, db, sqlquery.ClickHouse)

	case config.StoreMongo:
		client, err := mongo.Connect(ctx, taskMongo.ClientOptions(cfg.MongoURI))
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		if err := ping(ctx, cfg, log, cfg.Store, func(ctx context.Context) error { return client.Ping(ctx, nil) }); err != nil {
			closeFn()
			return nil, nil, err
		}
		repo, err := taskMongo.NewTaskRepoMongoDB(ctx, client, cfg.MongoDB)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("create mongo indexes: %w", err)
		}
		return repo, closeFn, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closeFn := func() { _ = rdb.Close() }
		if err := ping(ctx, cfg, log, cfg.Store, func(ctx context.Context) error { return rdb.Ping(ctx).Err() }); err != nil {
			closeFn()
			return nil, nil, err
		}
		return taskCache.NewTaskRepoRedis(rdb), closeFn, nil

	case config.StoreFile:
		return taskFile.NewJSONTaskStorage(cfg.FilePath), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func openSQL(ctx context.Context, cfg *config.Config, log *zap.Logger, db *sql.DB, dialect sqlquery.Dialect) (taskDomain.TaskRepository, func(), error) {
	closeFn := func() { _ = db.Close() }

	if err := ping(ctx, cfg, log, cfg.Store, db.PingContext); err != nil {
		closeFn()
		return nil, nil, err
	}
	if err := taskSQL.InitSchema(ctx, db, dialect); err != nil {
		closeFn()
		return nil, nil, err
	}
	return taskSQL.NewTaskRepoSQL(db, dialect), closeFn, nil
}
