package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse es el cuerpo de error común a todos los endpoints:
//
//	{"error": {"message": "...", "status": 400}}
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// SendSuccess envuelve el payload en {"data": ...}. Los listados paginados
// no lo usan: PagedResult ya trae su propio campo "data".
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"data": data,
	})
}

// SendError aborta la cadena de handlers y escribe el error.
func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"error": ErrorResponse{
			Message: message,
			Status:  statusCode,
		},
	})
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}
