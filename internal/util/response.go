package util

import (
	"ai_academy_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func ValidationFailed(c *gin.Context, err *ValidationError) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:  "validation failed",
		Fields: err.Fields,
	})
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// HandleError 将服务层错误映射为 HTTP 响应
func HandleError(c *gin.Context, err error) {
	if ve, ok := IsValidationError(err); ok {
		ValidationFailed(c, ve)
		return
	}
	if errors.Is(err, ErrNotFound) {
		NotFound(c, err.Error())
		return
	}
	LogInternalError(c, err)
}
