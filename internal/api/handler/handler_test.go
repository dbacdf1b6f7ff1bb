package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/sns-backend/config"
	"github.com/d60-Lab/sns-backend/internal/api/middleware"
	"github.com/d60-Lab/sns-backend/internal/cache"
	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/internal/service"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Env = "test"
	cfg.JWT = config.JWT{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
	return cfg
}

// newTestServer 组装与生产相同的路由拓扑（不含 sentry/otel/swagger 外围）。
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	cfg := testConfig()
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	tokens := service.NewTokenService(cfg.JWT)
	sessions := service.NewSessionService(userRepo, tokens)
	viewSvc := service.NewPostViewAssembler(reactionRepo)
	users := service.NewUserService(userRepo, postRepo, viewSvc)
	posts := service.NewPostService(postRepo, reactionRepo, viewSvc)
	comments := service.NewCommentService(commentRepo, postRepo)
	followers := cache.NewFollowers(db, nil, fanRepo, 0)
	relations := service.NewRelationshipService(userRepo, followRepo, followers, nil)

	h := New(cfg, sessions, users, posts, comments, relations)
	gate := middleware.AuthGate(tokens, userRepo)

	r := gin.New()
	r.GET("/health", h.Health)
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/refresh", h.Refresh)
		auth.GET("/me", gate, h.Me)
	}
	user := r.Group("/user", gate)
	{
		user.POST("", h.CreateUser)
		user.GET("", h.ListUsers)
		user.GET("/:id", h.GetUser)
		user.PUT("/:id", h.UpdateUser)
		user.DELETE("/:id", h.DeleteUser)
		user.GET("/:id/wall", h.GetWall)
		user.GET("/:id/followers", h.ListFollowers)
		user.POST("/:id/follow", h.FollowUser)
		user.POST("/:id/unfollow", h.UnfollowUser)
	}
	post := r.Group("/post", gate)
	{
		post.POST("", h.CreatePost)
		post.GET("", h.Feed)
		post.GET("/:id", h.GetPost)
		post.PUT("/:id", h.UpdatePost)
		post.DELETE("/:id", h.DeletePost)
		post.POST("/:id/like", h.LikePost)
		post.POST("/:id/unlike", h.UnlikePost)
		post.POST("/:id/dislike", h.DislikePost)
		post.POST("/:id/undislike", h.UndislikePost)
	}
	comment := r.Group("/comment", gate)
	{
		comment.POST("/post/:postId", h.CreateComment)
		comment.GET("/post/:postId", h.ListComments)
		comment.GET("/:id", h.GetComment)
		comment.PUT("/:id", h.UpdateComment)
		comment.DELETE("/:id", h.DeleteComment)
	}
	return r, db
}

// client 持有 cookie 的测试客户端。
type client struct {
	t       *testing.T
	r       *gin.Engine
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, r *gin.Engine) *client {
	return &client{t: t, r: r, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
		} else {
			c.cookies[ck.Name] = ck
		}
	}
	return w
}

func (c *client) register(username, email, password string) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, "/auth/register", gin.H{
		"username": username, "email": email, "password": password,
	})
}

func (c *client) login(username, password string) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, "/auth/login", gin.H{
		"username": username, "password": password,
	})
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}
