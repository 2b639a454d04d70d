package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"personal-apis/internal/access"
	"personal-apis/internal/core/auth"
)

const keyPrincipal = "principal"

// Principal resolves the bearer token into an access.Principal without
// terminating the request: the route policies decide what to do with an
// anonymous caller. A token that fails verification leaves the caller
// anonymous (Presented is still recorded).
func Principal(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.Set(keyPrincipal, access.Anonymous(ah != ""))
			c.Next()
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil || claims.UID == 0 {
			c.Set(keyPrincipal, access.Anonymous(true))
			c.Next()
			return
		}
		c.Set(keyPrincipal, access.Authenticated(claims.UID))
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Principal. Routes mounted
// without the middleware see an anonymous caller.
func PrincipalFrom(c *gin.Context) access.Principal {
	if v, ok := c.Get(keyPrincipal); ok {
		if p, ok := v.(access.Principal); ok {
			return p
		}
	}
	return access.Anonymous(false)
}
