package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.New().String()
}

// GetRequestID returns the id assigned by RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
