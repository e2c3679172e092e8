// Package sqldb implementa TaskRepository sobre database/sql para SQLite,
// PostgreSQL y ClickHouse. Las diferencias entre motores viven en sqlquery.Dialect.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	taskDomain "github.com/davicafu/pagesort/internal/task/domain"
	"github.com/davicafu/pagesort/shared/platform/query"
	"github.com/davicafu/pagesort/shared/platform/query/sqlquery"
)

const tasksTable = "tasks"

var taskColumns = []string{"id", "title", "description", "assignee_id", "status", "created_at", "updated_at"}

// TaskRepoSQL implementa la interfaz TaskRepository.
type TaskRepoSQL struct {
	db      *sql.DB
	dialect sqlquery.Dialect
}

// NewTaskRepoSQL es el constructor del repositorio.
func NewTaskRepoSQL(db *sql.DB, dialect sqlquery.Dialect) *TaskRepoSQL {
	return &TaskRepoSQL{db: db, dialect: dialect}
}

// ------------------ Escritura ------------------

// Create inserta las tareas en una transacción.
func (r *TaskRepoSQL) Create(ctx context.Context, tasks ...*taskDomain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if r.dialect.Name == sqlquery.ClickHouse.Name {
		return r.createBatch(ctx, tasks)
	}

	insert := squirrel.Insert(tasksTable).Columns(taskColumns...).PlaceholderFormat(r.dialect.Placeholder)
	for _, t := range tasks {
		insert = insert.Values(taskValues(t)...)
	}
	sqlStr, args, err := insert.ToSql()
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() // Se ignora si el Commit() es exitoso

	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to insert tasks: %w", err)
	}
	return tx.Commit()
}

// createBatch usa el envío por lotes de ClickHouse: una sentencia preparada
// sin VALUES y un Exec por fila dentro de la transacción.
func (r *TaskRepoSQL) createBatch(ctx context.Context, tasks []*taskDomain.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (id, title, description, assignee_id, status, created_at, updated_at)", tasksTable))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tasks {
		if _, err := stmt.ExecContext(ctx, taskValues(t)...); err != nil {
			return fmt.Errorf("failed to exec statement for task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// Update reemplaza los campos editables de la tarea.
func (r *TaskRepoSQL) Update(ctx context.Context, t *taskDomain.Task) error {
	if r.dialect.Name == sqlquery.ClickHouse.Name {
		return r.updateMutation(ctx, t)
	}

	sqlStr, args, err := squirrel.Update(tasksTable).
		Set("title", t.Title).
		Set("description", t.Description).
		Set("status", string(t.Status)).
		Set("updated_at", t.UpdatedAt.UTC()).
		Where(squirrel.Eq{"id": t.ID.String()}).
		PlaceholderFormat(r.dialect.Placeholder).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return taskDomain.ErrTaskNotFound
	}
	return nil
}

// updateMutation usa ALTER TABLE ... UPDATE, que ClickHouse no cuenta en
// RowsAffected: la existencia se comprueba antes y mutations_sync espera a
// que la mutación termine.
func (r *TaskRepoSQL) updateMutation(ctx context.Context, t *taskDomain.Task) error {
	if _, err := r.GetByID(ctx, t.ID); err != nil {
		return err
	}

	ctx = clickhouse.Context(ctx, clickhouse.WithSettings(clickhouse.Settings{
		"mutations_sync": 1,
	}))
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf("ALTER TABLE %s UPDATE title = ?, description = ?, status = ?, updated_at = ? WHERE id = ?", tasksTable),
		t.Title, t.Description, string(t.Status), t.UpdatedAt.UTC(), t.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", t.ID, err)
	}
	return nil
}

func taskValues(t *taskDomain.Task) []any {
	return []any{
		t.ID.String(), t.Title, t.Description, t.AssigneeID.String(),
		string(t.Status), t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	}
}

// ------------------ Lectura ------------------

// GetByID recupera una tarea por su ID.
func (r *TaskRepoSQL) GetByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	sqlStr, args, err := squirrel.Select(taskColumns...).
		From(tasksTable).
		Where(squirrel.Eq{"id": id.String()}).
		PlaceholderFormat(r.dialect.Placeholder).
		ToSql()
	if err != nil {
		return nil, err
	}

	t, err := scanTask(r.db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return t, nil
}

// Query devuelve la consulta perezosa filtrada; no ejecuta nada.
func (r *TaskRepoSQL) Query(filter *taskDomain.TaskFilter) (query.Queryable[*taskDomain.Task], error) {
	return sqlquery.New(r.db, r.dialect, tasksTable, taskColumns, scanTask).Where(filter.Criteria()), nil
}

func scanTask(row sqlquery.RowScanner) (*taskDomain.Task, error) {
	var (
		t               taskDomain.Task
		idStr, assignee string
		description     sql.NullString
		status          string
	)
	if err := row.Scan(&idStr, &t.Title, &description, &assignee, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if t.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("invalid UUID in tasks row: %w", err)
	}
	if t.AssigneeID, err = uuid.Parse(assignee); err != nil {
		return nil, fmt.Errorf("invalid assignee UUID in task %s: %w", idStr, err)
	}
	t.Description = description.String
	t.Status = taskDomain.TaskStatus(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

var _ taskDomain.TaskRepository = (*TaskRepoSQL)(nil)
