package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/pagesort/pkg/utils"
)

// RegisterTaskRoutes registra las rutas HTTP para el dominio de Tareas.
func RegisterTaskRoutes(r *gin.Engine, handler *TaskHandler) {
	tasks := r.Group("/tasks")
	{
		tasks.GET("", handler.ListTasks)
		tasks.POST("", handler.CreateTask)
		tasks.GET("/:id", handler.GetTask)
		tasks.PUT("/:id", handler.UpdateTask)
		tasks.POST("/:id/complete", handler.CompleteTask)
		tasks.POST("/:id/fail", handler.FailTask)
	}
}

// RegisterHealthRoute registra GET /health.
func RegisterHealthRoute(r *gin.Engine, store string) {
	r.GET("/health", func(c *gin.Context) {
		utils.SendSuccess(c, http.StatusOK, gin.H{"status": "ok", "store": store})
	})
}
