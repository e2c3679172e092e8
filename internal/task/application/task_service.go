package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	taskDomain "github.com/davicafu/pagesort/internal/task/domain"
	sharedCache "github.com/davicafu/pagesort/shared/platform/cache"
	"github.com/davicafu/pagesort/shared/platform/query"
	sharedUtils "github.com/davicafu/pagesort/shared/utils"
)

const taskCacheTTL = 120 // segundos

// TaskListRequest es la petición de listado: página, tamaño, orden y filtro.
type TaskListRequest = query.FilterRequest[taskDomain.TaskFilter]

// TaskService define los casos de uso relacionados con Task.
type TaskService struct {
	repo  taskDomain.TaskRepository
	cache sharedCache.Cache
	pager query.Pager[*taskDomain.Task]
	log   *zap.Logger
}

// NewTaskService es el constructor. cache puede ser nil.
func NewTaskService(repo taskDomain.TaskRepository, cache sharedCache.Cache, log *zap.Logger) *TaskService {
	return &TaskService{
		repo:  repo,
		cache: cache,
		pager: query.NewPaginator[*taskDomain.Task](),
		log:   log,
	}
}

// CreateTask crea una tarea pendiente y la deja en caché.
func (s *TaskService) CreateTask(ctx context.Context, title, description string, assigneeID uuid.UUID) (*taskDomain.Task, error) {
	task, err := taskDomain.NewTask(title, description, assigneeID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.log.Error("Failed to create task", zap.Error(err))
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, taskDomain.TaskCacheKeyByID(task.ID), task, taskCacheTTL, s.log)

	return task, nil
}

// GetTaskByID obtiene una tarea, usando el patrón cache-aside con reintentos.
func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	// 1. Intentar obtener de la caché
	if s.cache != nil {
		var t taskDomain.Task
		hit, err := s.cache.Get(ctx, taskDomain.TaskCacheKeyByID(id), &t)
		if err != nil {
			// Caché caída: se sigue con el repositorio.
			s.log.Warn("Task cache read failed", zap.String("task_id", id.String()), zap.Error(err))
		} else if hit {
			return &t, nil
		}
	}

	// 2. Si es 'miss', ir al repositorio con reintentos
	var task *taskDomain.Task
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var errRetry error
		task, errRetry = s.repo.GetByID(ctx, id)
		if errors.Is(errRetry, taskDomain.ErrTaskNotFound) {
			// No tiene sentido reintentar un 404.
			return nil
		}
		return errRetry
	})
	if err == nil && task == nil {
		err = taskDomain.ErrTaskNotFound
	}

	if err != nil {
		if errors.Is(err, taskDomain.ErrTaskNotFound) {
			s.log.Warn("Task not found", zap.String("task_id", id.String()))
		} else {
			s.log.Error("Failed to fetch task", zap.String("task_id", id.String()), zap.Error(err))
		}
		return nil, err
	}

	// 3. Actualizar caché en segundo plano para la próxima vez
	sharedCache.AsyncCacheSet(s.cache, taskDomain.TaskCacheKeyByID(task.ID), task, taskCacheTTL, s.log)

	return task, nil
}

// TaskChanges son los campos editables de una tarea; nil conserva el valor actual.
type TaskChanges struct {
	Title       *string
	Description *string
}

// UpdateTask aplica los cambios de título y descripción.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, changes TaskChanges) (*taskDomain.Task, error) {
	return s.modifyTask(ctx, id, func(t *taskDomain.Task) error {
		title, description := t.Title, t.Description
		if changes.Title != nil {
			title = *changes.Title
		}
		if changes.Description != nil {
			description = *changes.Description
		}
		return t.Update(title, description)
	})
}

// CompleteTask marca la tarea como completada.
func (s *TaskService) CompleteTask(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	return s.modifyTask(ctx, id, func(t *taskDomain.Task) error {
		t.Complete()
		return nil
	})
}

// FailTask marca la tarea como fallida.
func (s *TaskService) FailTask(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	return s.modifyTask(ctx, id, func(t *taskDomain.Task) error {
		t.Fail()
		return nil
	})
}

// modifyTask lee del repositorio (nunca de la caché), aplica fn, guarda e
// invalida la entrada de caché.
func (s *TaskService) modifyTask(ctx context.Context, id uuid.UUID, fn func(*taskDomain.Task) error) (*taskDomain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *task
	if err := fn(&updated); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		s.log.Error("Failed to update task", zap.String("task_id", id.String()), zap.Error(err))
		return nil, err
	}
	s.log.Info("Task updated", zap.String("task_id", id.String()), zap.String("status", string(updated.Status)))

	sharedCache.AsyncCacheDelete(s.cache, taskDomain.TaskCacheKeyByID(id), s.log)

	return &updated, nil
}

// ListTasks filtra, ordena y pagina. Un campo de orden desconocido devuelve
// query.ErrInvalidFieldReference sin consultar el store.
func (s *TaskService) ListTasks(ctx context.Context, req TaskListRequest) (*query.PagedResult[*taskDomain.Task], error) {
	q, err := s.repo.Query(req.Filter)
	if err != nil {
		s.log.Warn("Task filter rejected", zap.Error(err))
		return nil, err
	}

	q, err = query.OrderByRequest(q, req.Request, taskDomain.TaskSortFields, taskDomain.DefaultTaskSort)
	if err != nil {
		s.log.Warn("Invalid sort field", zap.Error(err))
		return nil, err
	}

	res, err := s.pager.Paginate(ctx, q, req)
	if err != nil {
		s.log.Error("Failed to list tasks",
			zap.Int("page", req.Page()),
			zap.Int("per_page", req.PerPage()),
			zap.Error(err))
		return nil, err
	}

	s.log.Debug("Tasks listed",
		zap.Int("page", res.CurrentPage),
		zap.Int("per_page", res.PerPage),
		zap.Int("total", res.Total))

	return res, nil
}

// ListPendingTasksForUser es un atajo de ListTasks para las tareas pendientes de un usuario.
func (s *TaskService) ListPendingTasksForUser(ctx context.Context, userID uuid.UUID, page, perPage int) (*query.PagedResult[*taskDomain.Task], error) {
	status := taskDomain.TaskPending
	req := query.NewFilterRequest(page, perPage, &taskDomain.TaskFilter{Status: &status, AssigneeID: &userID})
	return s.ListTasks(ctx, req)
}
