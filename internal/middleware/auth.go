package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/pkg/config"
	appErrors "github.com/brightoak/homeschool-api/pkg/errors"
	"github.com/brightoak/homeschool-api/pkg/response"
)

// ContextUserKey is the gin context key storing validated token claims.
const ContextUserKey = "currentUser"

// Auth gates routes behind bearer tokens issued by the external identity
// provider. The core consumes no data from the claims; state is not
// partitioned per user.
func Auth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims := &models.AccessClaims{}
		_, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.Secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithLeeway(cfg.Leeway))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
