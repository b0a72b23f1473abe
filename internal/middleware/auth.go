package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/poi-backend-go/pkg/response"
)

// JWTAuth guards write endpoints with a bearer token. The validate function
// returns the token's subject; the subject lands in the context under "user".
func JWTAuth(validate func(token string) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "Missing Authorization header")
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.Unauthorized(c, "Authorization header must be a Bearer token")
			c.Abort()
			return
		}

		user, err := validate(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
