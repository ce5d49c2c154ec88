package middleware

import (
	"ai_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID 沿用客户端传入的 X-Request-ID，缺失时生成新的 UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(util.HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(util.ContextRequestID, id)
		c.Header(util.HeaderRequestID, id)
		c.Next()
	}
}
