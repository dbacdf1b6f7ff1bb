package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/sns-backend/config"
	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/internal/service"
)

func setupGate(t *testing.T) (*gin.Engine, *service.TokenService, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	tokens := service.NewTokenService(config.JWT{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	users := repository.NewUserRepository(db)

	r := gin.New()
	r.GET("/whoami", AuthGate(tokens, users), func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id.ID, "username": id.Username})
	})
	return r, tokens, db
}

func seedAccount(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	u := &model.User{ID: "u1", Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func doGet(r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: AccessCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthGatePassesIdentity(t *testing.T) {
	r, tokens, db := setupGate(t)
	u := seedAccount(t, db)

	pair, err := tokens.Issue(u)
	require.NoError(t, err)

	w := doGet(r, pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}

func TestAuthGateMissingCookie(t *testing.T) {
	r, _, _ := setupGate(t)

	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No active session found")
}

func TestAuthGateBadToken(t *testing.T) {
	r, _, db := setupGate(t)
	seedAccount(t, db)

	w := doGet(r, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestAuthGateExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	tokens := service.NewTokenService(config.JWT{
		AccessSecret: "access-secret", RefreshSecret: "refresh-secret",
		AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour,
	}).WithClock(func() time.Time { return clock })
	users := repository.NewUserRepository(db)

	r := gin.New()
	r.GET("/whoami", AuthGate(tokens, users), func(c *gin.Context) { c.Status(http.StatusOK) })

	u := seedAccount(t, db)
	pair, err := tokens.Issue(u)
	require.NoError(t, err)

	clock = base.Add(16 * time.Minute)
	w := doGet(r, pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}

// 删号后的在途令牌：签名有效但账号回查失败，403。
func TestAuthGateDeletedAccount(t *testing.T) {
	r, tokens, db := setupGate(t)
	u := seedAccount(t, db)

	pair, err := tokens.Issue(u)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&model.User{}, "id = ?", u.ID).Error)

	w := doGet(r, pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token or session")
}
