package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davicafu/pagesort/internal/task/application"
	taskDomain "github.com/davicafu/pagesort/internal/task/domain"
	"github.com/davicafu/pagesort/pkg/utils"
	"github.com/davicafu/pagesort/shared/platform/query"
	"github.com/davicafu/pagesort/shared/platform/query/redisquery"
)

// TaskHandler encapsula los endpoints HTTP relacionados con Task.
type TaskHandler struct {
	service *application.TaskService
}

// NewTaskHandler crea un nuevo TaskHandler.
func NewTaskHandler(service *application.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTask endpoint POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		AssigneeID  uuid.UUID `json:"assigneeId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), req.Title, req.Description, req.AssigneeID)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTask endpoint GET /tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid task id")
		return
	}

	task, err := h.service.GetTaskByID(c.Request.Context(), id)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask endpoint PUT /tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid task id")
		return
	}

	// Usamos punteros para que los campos sean opcionales en el JSON
	var req struct {
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), id, application.TaskChanges{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// CompleteTask endpoint POST /tasks/:id/complete
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	h.transition(c, h.service.CompleteTask)
}

// FailTask endpoint POST /tasks/:id/fail
func (h *TaskHandler) FailTask(c *gin.Context) {
	h.transition(c, h.service.FailTask)
}

func (h *TaskHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*taskDomain.Task, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid task id")
		return
	}

	task, err := fn(c.Request.Context(), id)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListTasks endpoint GET /tasks con filtros, paginación y ordenación.
//
//	page, per_page                 enteros; <= 0 o ausentes usan 1 y 10
//	sort_field, sort_direction     ASC o DESC; sin ambos se ordena por createdAt DESC
//	title, status, assignee_id     filtros opcionales
//	created_after, created_before  RFC 3339
func (h *TaskHandler) ListTasks(c *gin.Context) {
	req, err := parseListRequest(c)
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	res, err := h.service.ListTasks(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// --- Parámetros ---

func parseListRequest(c *gin.Context) (application.TaskListRequest, error) {
	var req application.TaskListRequest

	page, err := intParam(c, "page")
	if err != nil {
		return req, err
	}
	perPage, err := intParam(c, "per_page")
	if err != nil {
		return req, err
	}
	req.SetPage(page)
	req.SetPerPage(perPage)

	// nil distingue "no indicado" de cadena vacía
	req.SetSort(optionalParam(c, "sort_field"), optionalParam(c, "sort_direction"))

	filter, err := parseFilter(c)
	if err != nil {
		return req, err
	}
	req.Filter = filter
	return req, nil
}

func parseFilter(c *gin.Context) (*taskDomain.TaskFilter, error) {
	var f taskDomain.TaskFilter

	if title := c.Query("title"); title != "" {
		f.Title = &title
	}
	if s := c.Query("status"); s != "" {
		status := taskDomain.TaskStatus(s)
		if !status.Valid() {
			return nil, fmt.Errorf("invalid status %q", s)
		}
		f.Status = &status
	}
	if s := c.Query("assignee_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid assignee_id %q", s)
		}
		f.AssigneeID = &id
	}

	var err error
	if f.CreatedAfter, err = timeParam(c, "created_after"); err != nil {
		return nil, err
	}
	if f.CreatedBefore, err = timeParam(c, "created_before"); err != nil {
		return nil, err
	}

	if f.IsEmpty() {
		return nil, nil
	}
	return &f, nil
}

func optionalParam(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}

// intParam devuelve 0 si el parámetro no viene; Request lo sustituye al leer.
func intParam(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func timeParam(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected RFC 3339", key, v)
	}
	return &t, nil
}

// --- Errores ---

func sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, taskDomain.ErrTaskNotFound):
		utils.SendNotFound(c, "task not found")
	case errors.Is(err, query.ErrInvalidFieldReference),
		errors.Is(err, taskDomain.ErrFilterUnsupported),
		errors.Is(err, redisquery.ErrUnindexedColumn),
		errors.Is(err, taskDomain.ErrInvalidTask):
		utils.SendBadRequest(c, err.Error())
	default:
		utils.SendInternalServerError(c, err.Error())
	}
}
