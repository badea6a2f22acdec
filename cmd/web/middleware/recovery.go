package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/trace"
)

// Recovery 는 핸들러 panic 을 request_id 와 함께 구조화 로그로 남기고 500 을 응답한다.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorWithFields("handler panic", logger.Fields{
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"request_id": trace.RequestIDFromContext(c.Request.Context()),
					"panic":      r,
					"stack":      string(debug.Stack()),
				})
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
