// README: HTTP helper utilities for JSON error responses.
package http

import "github.com/gin-gonic/gin"

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
