package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	taskDomain "github.com/davicafu/pagesort/internal/task/domain"
)

var demoStatuses = []taskDomain.TaskStatus{taskDomain.TaskPending, taskDomain.TaskCompleted, taskDomain.TaskFailed}

// SeedDemoTasks inserta n tareas repartidas entre tres usuarios y estados,
// con una hora de diferencia entre cada CreatedAt. Sólo para la demo.
func (s *TaskService) SeedDemoTasks(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}

	assignees := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	start := time.Now().UTC().Add(-time.Duration(n) * time.Hour)

	tasks := make([]*taskDomain.Task, 0, n)
	for i := 0; i < n; i++ {
		created := start.Add(time.Duration(i) * time.Hour)
		tasks = append(tasks, &taskDomain.Task{
			ID:          uuid.New(),
			Title:       fmt.Sprintf("Demo task %03d", i+1),
			Description: "seeded",
			AssigneeID:  assignees[i%len(assignees)],
			Status:      demoStatuses[i%len(demoStatuses)],
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Duration(i%5) * time.Minute),
		})
	}

	if err := s.repo.Create(ctx, tasks...); err != nil {
		return fmt.Errorf("seed demo tasks: %w", err)
	}
	s.log.Info("Demo tasks seeded", zap.Int("count", n))
	return nil
}
