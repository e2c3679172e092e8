// Package cache guarda las tareas en Redis: un hash con el JSON de cada tarea
// y un sorted set por columna temporal para paginar sin leer toda la colección.
package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	taskDomain "github.com/davicafu/pagesort/internal/task/domain"
	"github.com/davicafu/pagesort/shared/platform/query"
	"github.com/davicafu/pagesort/shared/platform/query/redisquery"
)

const taskNamespace = "pagesort:tasks"

// TaskRepoRedis implementa TaskRepository. Sólo ordena por created_at y
// updated_at y no admite filtros.
type TaskRepoRedis struct {
	coll *redisquery.Collection[*taskDomain.Task]
}

func NewTaskRepoRedis(client redis.Cmdable) *TaskRepoRedis {
	return NewTaskRepoRedisNS(client, taskNamespace)
}

// NewTaskRepoRedisNS permite aislar colecciones (tests, varios tenants).
func NewTaskRepoRedisNS(client redis.Cmdable, ns string) *TaskRepoRedis {
	coll := redisquery.NewCollection(client, ns,
		func(t *taskDomain.Task) string { return t.ID.String() },
		redisquery.Index[*taskDomain.Task]{
			Column: taskDomain.TaskByCreatedAt.Column,
			Score:  func(t *taskDomain.Task) float64 { return float64(t.CreatedAt.UnixMilli()) },
		},
		redisquery.Index[*taskDomain.Task]{
			Column: taskDomain.TaskByUpdatedAt.Column,
			Score:  func(t *taskDomain.Task) float64 { return float64(t.UpdatedAt.UnixMilli()) },
		},
	)
	return &TaskRepoRedis{coll: coll}
}

// Create guarda o reemplaza las tareas.
func (r *TaskRepoRedis) Create(ctx context.Context, tasks ...*taskDomain.Task) error {
	return r.coll.Put(ctx, tasks...)
}

// Update sobrescribe la tarea y sus scores. Put no distingue alta de
// modificación, así que la existencia se comprueba antes.
func (r *TaskRepoRedis) Update(ctx context.Context, t *taskDomain.Task) error {
	if _, err := r.GetByID(ctx, t.ID); err != nil {
		return err
	}
	return r.coll.Put(ctx, t)
}

func (r *TaskRepoRedis) GetByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	t, ok, err := r.coll.Get(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, taskDomain.ErrTaskNotFound
	}
	return t, nil
}

func (r *TaskRepoRedis) Query(filter *taskDomain.TaskFilter) (query.Queryable[*taskDomain.Task], error) {
	if !filter.IsEmpty() {
		return nil, fmt.Errorf("%w: redis store only lists unfiltered tasks", taskDomain.ErrFilterUnsupported)
	}
	return r.coll.Query(), nil
}

// Clear borra todas las tareas y sus índices.
func (r *TaskRepoRedis) Clear(ctx context.Context) error {
	return r.coll.Clear(ctx)
}

var _ taskDomain.TaskRepository = (*TaskRepoRedis)(nil)
