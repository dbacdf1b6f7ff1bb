package router

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/sns-backend/config"
	_ "github.com/d60-Lab/sns-backend/docs"
	"github.com/d60-Lab/sns-backend/internal/api/handler"
	"github.com/d60-Lab/sns-backend/internal/api/middleware"
)

// New 组装路由：/auth 开放，资源路由全部过 AuthGate。
func New(cfg *config.Config, h *handler.Handler, authGate gin.HandlerFunc) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(otelgin.Middleware("sns-backend"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(secure.New(secure.Config{
		ContentTypeNosniff: true,
		FrameDeny:          true,
		BrowserXssFilter:   true,
	}))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RateLimit(cfg.Server.RateRPS, cfg.Server.RateBurst))

	r.GET("/health", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/refresh", h.Refresh)
		auth.GET("/me", authGate, h.Me)
	}

	user := r.Group("/user", authGate)
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

	post := r.Group("/post", authGate)
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

	comment := r.Group("/comment", authGate)
	{
		comment.POST("/post/:postId", h.CreateComment)
		comment.GET("/post/:postId", h.ListComments)
		comment.GET("/:id", h.GetComment)
		comment.PUT("/:id", h.UpdateComment)
		comment.DELETE("/:id", h.DeleteComment)
	}

	return r
}
