package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	taskDomain "github.com/davicafu/pagesort/internal/task/domain"
	"github.com/davicafu/pagesort/shared/platform/query"
)

// JSONTaskStorage es un adaptador outbound que guarda las tareas en un fichero JSON.
type JSONTaskStorage struct {
	filePath string
	mu       sync.Mutex // serializa lectura/escritura del fichero
}

// NewJSONTaskStorage es el constructor.
func NewJSONTaskStorage(filePath string) *JSONTaskStorage {
	return &JSONTaskStorage{
		filePath: filePath,
	}
}

// Create añade las tareas al fichero. Si el fichero no existe, lo crea.
func (s *JSONTaskStorage) Create(ctx context.Context, tasks ...*taskDomain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.readAll()
	if err != nil {
		return err
	}

	seen := make(map[uuid.UUID]struct{}, len(stored)+len(tasks))
	for _, t := range stored {
		seen[t.ID] = struct{}{}
	}
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			return taskDomain.ErrTaskAlreadyExists
		}
		seen[t.ID] = struct{}{}
	}

	return s.writeAll(append(stored, tasks...))
}

// Update reemplaza la tarea con el mismo ID y reescribe el fichero.
func (s *JSONTaskStorage) Update(ctx context.Context, task *taskDomain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.readAll()
	if err != nil {
		return err
	}
	for i, t := range tasks {
		if t.ID == task.ID {
			tasks[i] = task
			return s.writeAll(tasks)
		}
	}
	return taskDomain.ErrTaskNotFound
}

func (s *JSONTaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, taskDomain.ErrTaskNotFound
}

// Query no lee el fichero: cada Count o List toma una foto nueva, la filtra
// y la evalúa en memoria.
func (s *JSONTaskStorage) Query(filter *taskDomain.TaskFilter) (query.Queryable[*taskDomain.Task], error) {
	return query.Defer(func(ctx context.Context) (query.Queryable[*taskDomain.Task], error) {
		return s.snapshot(ctx, filter)
	}), nil
}

func (s *JSONTaskStorage) snapshot(ctx context.Context, filter *taskDomain.TaskFilter) (query.Queryable[*taskDomain.Task], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.readAll()
	if err != nil {
		return nil, err
	}

	list := make([]*taskDomain.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Matches(t) {
			list = append(list, t)
		}
	}
	return query.FromSlice(list), nil
}

// readAll no toma el mutex. Un fichero inexistente o vacío es una lista vacía.
func (s *JSONTaskStorage) readAll() ([]*taskDomain.Task, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*taskDomain.Task{}, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return []*taskDomain.Task{}, nil
	}

	var tasks []*taskDomain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.filePath, err)
	}
	return tasks, nil
}

// writeAll escribe en un temporal y lo renombra para no dejar el fichero a medias.
func (s *JSONTaskStorage) writeAll(tasks []*taskDomain.Task) error {
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}

var _ taskDomain.TaskRepository = (*JSONTaskStorage)(nil)
