package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtsvc "carsure/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *jwtsvc.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt := jwtsvc.New("test-secret", time.Hour)

	r := gin.New()
	r.GET("/protected", JWTAuth(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"user_id": c.GetInt64("user_id"),
			"role":    c.GetString("role"),
		})
	})
	r.GET("/admin", JWTAuth(jwt), AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r, jwt
}

func get(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := get(r, "/protected", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	r, jwt := newAuthRouter(t)

	token, err := jwt.GenerateToken(20, "seller")
	require.NoError(t, err)

	for _, auth := range []string{"Basic abc", token, "Bearer ", "Bearer  "} {
		w := get(r, "/protected", auth)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", auth)
	}
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := get(r, "/protected", "Bearer not-a-real-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Session invalide")
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	expired := jwtsvc.New("test-secret", -time.Hour)
	token, err := expired.GenerateToken(20, "seller")
	require.NoError(t, err)

	w := get(r, "/protected", "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_SetsIdentity(t *testing.T) {
	r, jwt := newAuthRouter(t)

	token, err := jwt.GenerateToken(20, "seller")
	require.NoError(t, err)

	w := get(r, "/protected", "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":20`)
	assert.Contains(t, w.Body.String(), `"role":"seller"`)
}

func TestAdminOnly(t *testing.T) {
	r, jwt := newAuthRouter(t)

	seller, err := jwt.GenerateToken(20, "seller")
	require.NoError(t, err)
	admin, err := jwt.GenerateToken(1, "admin")
	require.NoError(t, err)

	w := get(r, "/admin", "Bearer "+seller)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(r, "/admin", "Bearer "+admin)
	assert.Equal(t, http.StatusOK, w.Code)
}
