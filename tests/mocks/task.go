package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	taskDomain "github.com/davicafu/pagesort/internal/task/domain"
	"github.com/davicafu/pagesort/shared/platform/query"
)

// InMemoryTaskRepo simula TaskRepository sobre un mapa.
// Query toma una foto de las tareas que pasan el filtro (en orden de inserción).
type InMemoryTaskRepo struct {
	Tasks map[uuid.UUID]*taskDomain.Task
	order []uuid.UUID
	// QueryErr, si no es nil, lo devuelve Query.
	QueryErr error
	mu       sync.Mutex
}

func NewInMemoryTaskRepo() *InMemoryTaskRepo {
	return &InMemoryTaskRepo{
		Tasks: make(map[uuid.UUID]*taskDomain.Task),
	}
}

// --- Implementación de la interfaz TaskRepository ---

func (r *InMemoryTaskRepo) Create(ctx context.Context, tasks ...*taskDomain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tasks {
		if _, ok := r.Tasks[t.ID]; ok {
			return taskDomain.ErrTaskAlreadyExists
		}
	}
	for _, t := range tasks {
		r.Tasks[t.ID] = t
		r.order = append(r.order, t.ID)
	}
	return nil
}

func (r *InMemoryTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.Tasks[id]
	if !ok {
		return nil, taskDomain.ErrTaskNotFound
	}
	return t, nil
}

func (r *InMemoryTaskRepo) Update(ctx context.Context, task *taskDomain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Tasks[task.ID]; !ok {
		return taskDomain.ErrTaskNotFound
	}
	r.Tasks[task.ID] = task
	return nil
}

func (r *InMemoryTaskRepo) Query(filter *taskDomain.TaskFilter) (query.Queryable[*taskDomain.Task], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.QueryErr != nil {
		return nil, r.QueryErr
	}

	list := []*taskDomain.Task{}
	for _, id := range r.order {
		if task := r.Tasks[id]; filter.Matches(task) {
			list = append(list, task)
		}
	}
	return query.FromSlice(list), nil
}

var _ taskDomain.TaskRepository = (*InMemoryTaskRepo)(nil)
