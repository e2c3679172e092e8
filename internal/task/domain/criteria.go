package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	shared "github.com/davicafu/pagesort/shared/domain"
)

// --- Criterios Específicos para el Dominio Task ---

// StatusCriteria busca tareas por su estado (pending, completed, etc.).
type StatusCriteria struct {
	Status TaskStatus
}

func (c StatusCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: "status", Op: shared.OpEq, Value: string(c.Status)},
	}
}

// -----------------------------------------------------------

// AssigneeIDCriteria busca tareas asignadas a un usuario específico.
type AssigneeIDCriteria struct {
	ID uuid.UUID
}

func (c AssigneeIDCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: "assignee_id", Op: shared.OpEq, Value: c.ID.String()},
	}
}

// -----------------------------------------------------------

// TitleLikeCriteria busca tareas cuyo título contenga un texto.
type TitleLikeCriteria struct {
	Title string
}

func (c TitleLikeCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		// ILIKE: búsqueda insensible a mayúsculas/minúsculas
		{Field: "title", Op: shared.OpILike, Value: "%" + c.Title + "%"},
	}
}

// -----------------------------------------------------------

// CreatedAtRangeCriteria busca tareas creadas en un rango de fechas.
// Los punteros hacen opcionales el inicio y el fin. Los límites se pasan a UTC:
// SQLite guarda created_at como texto en UTC y compara cadenas.
type CreatedAtRangeCriteria struct {
	Start *time.Time
	End   *time.Time
}

func (c CreatedAtRangeCriteria) ToConditions() []shared.Criterion {
	var conds []shared.Criterion
	if c.Start != nil {
		conds = append(conds, shared.Criterion{Field: "created_at", Op: shared.OpGte, Value: c.Start.UTC()})
	}
	if c.End != nil {
		conds = append(conds, shared.Criterion{Field: "created_at", Op: shared.OpLte, Value: c.End.UTC()})
	}
	return conds
}

// -----------------------------------------------------------

// TaskFilter es el filtro opcional de un listado. Los campos nil no filtran.
type TaskFilter struct {
	Title         *string
	Status        *TaskStatus
	AssigneeID    *uuid.UUID
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// IsEmpty indica que el filtro no restringe nada.
func (f *TaskFilter) IsEmpty() bool {
	return f == nil || shared.IsEmpty(f.Criteria())
}

// Criteria combina en AND los criterios de los campos presentes.
func (f *TaskFilter) Criteria() shared.Criteria {
	if f == nil {
		return nil
	}
	var criterias []shared.Criteria
	if f.Title != nil && *f.Title != "" {
		criterias = append(criterias, TitleLikeCriteria{Title: *f.Title})
	}
	if f.Status != nil {
		criterias = append(criterias, StatusCriteria{Status: *f.Status})
	}
	if f.AssigneeID != nil {
		criterias = append(criterias, AssigneeIDCriteria{ID: *f.AssigneeID})
	}
	if f.CreatedAfter != nil || f.CreatedBefore != nil {
		criterias = append(criterias, CreatedAtRangeCriteria{Start: f.CreatedAfter, End: f.CreatedBefore})
	}
	return shared.And(criterias...)
}

// Matches evalúa el filtro en memoria, con la misma semántica que los stores:
// título contenido sin distinguir mayúsculas y rango de creación inclusivo.
func (f *TaskFilter) Matches(t *Task) bool {
	if f == nil {
		return true
	}
	if f.Title != nil && *f.Title != "" &&
		!strings.Contains(strings.ToLower(t.Title), strings.ToLower(*f.Title)) {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.AssigneeID != nil && t.AssigneeID != *f.AssigneeID {
		return false
	}
	if f.CreatedAfter != nil && t.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	if f.CreatedBefore != nil && t.CreatedAt.After(*f.CreatedBefore) {
		return false
	}
	return true
}
