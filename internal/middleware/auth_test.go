package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lifefashion/internal/auth"
)

func newTestRouter(tokens *auth.Service, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestAuthGuardAcceptsBearerHeader(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	r := newTestRouter(tokens, AuthGuard(tokens, auth.RoleMainAdmin))

	token, err := tokens.IssueEnvAdmin(auth.RoleMainAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthGuardAcceptsLegacyTokenHeader(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	r := newTestRouter(tokens, AuthGuard(tokens, auth.RoleStockAdmin))

	token, err := tokens.IssueEnvAdmin(auth.RoleStockAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("token", token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthGuardRejectsMissingToken(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	r := newTestRouter(tokens, AuthGuard(tokens, auth.RoleMainAdmin))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token missing")
}

func TestAuthGuardRejectsWrongRole(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	r := newTestRouter(tokens, AuthGuard(tokens, auth.RoleMainAdmin))

	token, err := tokens.IssueEnvAdmin(auth.RoleStockAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized role")
}

func TestAuthGuardRejectsForgedToken(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	forger := auth.NewService("other-secret", time.Hour)
	r := newTestRouter(tokens, AuthGuard(tokens, auth.RoleMainAdmin))

	token, err := forger.IssueEnvAdmin(auth.RoleMainAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserAuthInjectsUserID(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	userID := primitive.NewObjectID()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", UserAuth(tokens), func(c *gin.Context) {
		value, exists := c.Get(UserIDKey)
		require.True(t, exists)
		assert.Equal(t, userID, value)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	token, err := tokens.IssueUser(userID, "shopper@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserAuthRejectsEnvAdminToken(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", UserAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	token, err := tokens.IssueEnvAdmin(auth.RoleMainAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
