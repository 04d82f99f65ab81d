package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carvistors/config"
	"carvistors/models"
	"carvistors/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/", handlers...)
	return r
}

func doRequest(r http.Handler, token, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, kind models.AccountKind) string {
	t.Helper()
	config.AppConfig.JWTSecret = "test-secret"
	tok, err := utils.GenerateToken("id-1", "x@y.com", kind, "", time.Hour)
	require.NoError(t, err)
	return tok
}

func TestJWTAuthAdminMiddleware(t *testing.T) {
	r := setupTestServer(JWTAuthAdminMiddleware())

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "garbage", "").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, token(t, models.KindUser), "").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, token(t, models.KindAdmin), "").Code)
}

func TestJWTAuthMiddlewareSetsClaims(t *testing.T) {
	var got *utils.TokenClaims
	r := setupTestServer(JWTAuthMiddleware(), func(c *gin.Context) { got = ClaimsFrom(c) })

	assert.Equal(t, http.StatusNoContent, doRequest(r, token(t, models.KindUser), "").Code)
	require.NotNil(t, got)
	assert.Equal(t, "id-1", got.Subject)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := setupTestServer(RateLimitMiddleware(2))

	assert.Equal(t, http.StatusNoContent, doRequest(r, "", "1.1.1.1").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "", "1.1.1.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "", "1.1.1.1").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "", "2.2.2.2").Code)
}
