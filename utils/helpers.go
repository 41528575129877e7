package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Detail writes a terse {"detail": ...} body, the shape used for
// not-found and auth failures.
func Detail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"detail": message})
}

func NotFound(c *gin.Context, message string) {
	Detail(c, http.StatusNotFound, message)
}

func BadRequest(c *gin.Context, message string) {
	Detail(c, http.StatusBadRequest, message)
}

func InternalError(c *gin.Context, message string) {
	Detail(c, http.StatusInternalServerError, message)
}

// GetCurrentUserID returns the authenticated user id set by the auth
// middleware.
func GetCurrentUserID(c *gin.Context) uuid.UUID {
	userID, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil
	}
	return userID.(uuid.UUID)
}
