package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/pkg/config"
)

const testSecret = "test_secret"

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Auth(config.AuthConfig{Enabled: true, Secret: testSecret, Leeway: time.Minute}))
	r.GET("/protected", func(c *gin.Context) {
		claims, _ := c.Get(ContextUserKey)
		_, ok := claims.(*models.AccessClaims)
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})
	return r
}

func signToken(t *testing.T, secret string, expiry time.Time) string {
	t.Helper()
	claims := &models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "parent-1",
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func getProtected(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidBearerToken(t *testing.T) {
	r := authRouter(t)
	token := signToken(t, testSecret, time.Now().Add(time.Hour))

	w := getProtected(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r := authRouter(t)

	w := getProtected(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	r := authRouter(t)

	w := getProtected(r, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	r := authRouter(t)
	token := signToken(t, "other_secret", time.Now().Add(time.Hour))

	w := getProtected(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	r := authRouter(t)
	token := signToken(t, testSecret, time.Now().Add(-time.Hour))

	w := getProtected(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
