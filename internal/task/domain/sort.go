package domain

import (
	"time"

	"github.com/davicafu/pagesort/shared/platform/query"
)

// Claves de ordenación de Task. Column es el nombre del campo en todos los stores.
var (
	TaskByCreatedAt = query.TimeKey("CreatedAt", "created_at", func(t *Task) time.Time { return t.CreatedAt })
	TaskByUpdatedAt = query.TimeKey("UpdatedAt", "updated_at", func(t *Task) time.Time { return t.UpdatedAt })
	TaskByTitle     = query.Key("Title", "title", func(t *Task) string { return t.Title })
	TaskByStatus    = query.Key("Status", "status", func(t *Task) string { return string(t.Status) })
)

// TaskSortFields son los campos por los que un cliente puede ordenar.
var TaskSortFields = query.NewSortFields(TaskByCreatedAt, TaskByUpdatedAt, TaskByTitle, TaskByStatus)

// DefaultTaskSort se usa cuando la petición no trae campo o dirección.
var DefaultTaskSort = TaskByCreatedAt
