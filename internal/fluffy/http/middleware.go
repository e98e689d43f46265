package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, If-None-Match")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "ETag, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// checkReadyMiddleware answers 503 until the first process snapshot arrived.
func (s *Service) checkReadyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.ctx.IsLoading() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "process list is loading, please wait"})
			c.Abort()
			return
		}

		c.Next()
	}
}
