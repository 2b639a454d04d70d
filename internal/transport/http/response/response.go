// Package response centralizes the error bodies the API emits. Unlike a
// code-in-body envelope, failures here carry their real HTTP status;
// successful handlers write their payloads directly.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error writes { "detail": msg } with the given status and stops the chain.
func Error(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// ValidationError writes a 400 whose body maps field name to messages,
// e.g. {"title": ["This field is required."]}.
func ValidationError(c *gin.Context, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, fields)
}
