package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/davicafu/pagesort/shared/platform/query"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskAlreadyExists = errors.New("task already exists")
	ErrInvalidTask       = errors.New("invalid task")
	// ErrFilterUnsupported: el store no sabe evaluar el filtro pedido.
	ErrFilterUnsupported = errors.New("filter not supported by task store")
)

// --- Repositorio de Tasks ---
type TaskRepository interface {
	Create(ctx context.Context, tasks ...*Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// Update reemplaza título, descripción, estado y updated_at.
	// Devuelve ErrTaskNotFound si la tarea no existe.
	Update(ctx context.Context, task *Task) error
	// Query devuelve una consulta perezosa con el filtro aplicado; no toca el store.
	Query(filter *TaskFilter) (query.Queryable[*Task], error)
}

// ---------- Helpers comunes (cache keys, etc.) ----------

func TaskCacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("task:id:%s", id.String())
}
