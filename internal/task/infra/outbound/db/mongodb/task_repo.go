package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	taskDomain "github.com/davicafu/pagesort/internal/task/domain"
	"github.com/davicafu/pagesort/shared/platform/query"
	"github.com/davicafu/pagesort/shared/platform/query/mongoquery"
)

// TaskRepoMongoDB implementa la interfaz TaskRepository para MongoDB.
type TaskRepoMongoDB struct {
	tasksColl *mongo.Collection
}

// NewTaskRepoMongoDB es el constructor del repositorio.
func NewTaskRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*TaskRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}
	return &TaskRepoMongoDB{tasksColl: client.Database(dbName).Collection("tasks")}, nil
}

// EnsureIndexes crea un índice por cada columna ordenable.
func (r *TaskRepoMongoDB) EnsureIndexes(ctx context.Context) error {
	var models []mongo.IndexModel
	for _, key := range taskDomain.TaskSortFields {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: key.Column, Value: 1}}})
	}
	_, err := r.tasksColl.Indexes().CreateMany(ctx, models)
	return err
}

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.
// Los nombres de campo coinciden con las columnas SQL: los criterios y las
// claves de orden son los mismos en todos los stores.

type mongoTask struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	AssigneeID  string    `bson:"assignee_id"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// --- Escritura ---

func (r *TaskRepoMongoDB) Create(ctx context.Context, tasks ...*taskDomain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(tasks))
	for _, t := range tasks {
		docs = append(docs, toMongoTask(t))
	}

	_, err := r.tasksColl.InsertMany(ctx, docs)
	if mongo.IsDuplicateKeyError(err) {
		return taskDomain.ErrTaskAlreadyExists
	}
	return err
}

// Update reemplaza los campos editables con $set.
func (r *TaskRepoMongoDB) Update(ctx context.Context, t *taskDomain.Task) error {
	res, err := r.tasksColl.UpdateOne(ctx,
		bson.M{"_id": t.ID.String()},
		bson.M{"$set": bson.M{
			"title":       t.Title,
			"description": t.Description,
			"status":      string(t.Status),
			"updated_at":  t.UpdatedAt.UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return taskDomain.ErrTaskNotFound
	}
	return nil
}

// --- Lectura ---

func (r *TaskRepoMongoDB) GetByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	var mt mongoTask
	err := r.tasksColl.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&mt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, err
	}
	return fromMongoTask(&mt)
}

func (r *TaskRepoMongoDB) Query(filter *taskDomain.TaskFilter) (query.Queryable[*taskDomain.Task], error) {
	return mongoquery.New(r.tasksColl, decodeTask).Where(filter.Criteria()), nil
}

// --- Helpers de Mapeo y Conversión ---

func decodeTask(cur *mongo.Cursor) (*taskDomain.Task, error) {
	var mt mongoTask
	if err := cur.Decode(&mt); err != nil {
		return nil, err
	}
	return fromMongoTask(&mt)
}

func toMongoTask(t *taskDomain.Task) *mongoTask {
	return &mongoTask{
		ID: t.ID.String(), Title: t.Title, Description: t.Description,
		AssigneeID: t.AssigneeID.String(), Status: string(t.Status),
		CreatedAt: t.CreatedAt.UTC(), UpdatedAt: t.UpdatedAt.UTC(),
	}
}

func fromMongoTask(mt *mongoTask) (*taskDomain.Task, error) {
	id, err := uuid.Parse(mt.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", mt.ID, err)
	}
	assignee, err := uuid.Parse(mt.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("invalid assignee id in task %s: %w", mt.ID, err)
	}
	return &taskDomain.Task{
		ID: id, Title: mt.Title, Description: mt.Description,
		AssigneeID: assignee, Status: taskDomain.TaskStatus(mt.Status),
		CreatedAt: mt.CreatedAt.UTC(), UpdatedAt: mt.UpdatedAt.UTC(),
	}, nil
}

// Opciones de cliente usadas por main y por los tests de integración.
func ClientOptions(uri string) *options.ClientOptions {
	return options.Client().ApplyURI(uri).SetServerSelectionTimeout(5 * time.Second)
}

var _ taskDomain.TaskRepository = (*TaskRepoMongoDB)(nil)
