package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bloomorders/internal/server/http/middleware"
)

// CurrentSubject extracts the session subject from context.
func CurrentSubject(c *gin.Context) string {
	return c.GetString(middleware.SubjectContextKey)
}
