package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"healwise/pkg/utils"
)

const (
	ContextAccountID = "user_id"
	ContextEmail     = "email"
)

type AuthConfig struct {
	Secret        []byte
	Disabled      bool
	DemoAccountID string
}

// AccountMiddleware resolves the caller's account from an upstream-issued bearer token.
// With auth disabled every request runs as the demo account.
func AccountMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Disabled {
			c.Set(ContextAccountID, cfg.DemoAccountID)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(cfg.Secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.AccountID())
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}
