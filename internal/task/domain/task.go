package domain

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Valid indica si s es uno de los estados conocidos.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssigneeID  uuid.UUID  `json:"assigneeId"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask crea una tarea pendiente con ID nuevo.
func NewTask(title, description string, assigneeID uuid.UUID) (*Task, error) {
	if title == "" {
		return nil, ErrInvalidTask
	}
	now := time.Now().UTC()
	return &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		AssigneeID:  assigneeID,
		Status:      TaskPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// --- Métodos de dominio ---
// UpdatedAt se guarda en UTC, igual que en NewTask.
func (t *Task) Complete() {
	t.Status = TaskCompleted
	t.UpdatedAt = time.Now().UTC()
}

func (t *Task) Fail() {
	t.Status = TaskFailed
	t.UpdatedAt = time.Now().UTC()
}

// Update cambia título y descripción. Un título vacío devuelve ErrInvalidTask
// y deja la tarea sin tocar.
func (t *Task) Update(title, description string) error {
	if title == "" {
		return ErrInvalidTask
	}
	t.Title = title
	t.Description = description
	t.UpdatedAt = time.Now().UTC()
	return nil
}
