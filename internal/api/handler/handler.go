package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sns-backend/config"
	"github.com/d60-Lab/sns-backend/internal/service"
	"github.com/d60-Lab/sns-backend/pkg/response"
)

// Handler 聚合全部 HTTP 入口。
type Handler struct {
	cfg       *config.Config
	sessions  *service.SessionService
	users     *service.UserService
	posts     *service.PostService
	comments  *service.CommentService
	relations service.RelationshipService
}

func New(
	cfg *config.Config,
	sessions *service.SessionService,
	users *service.UserService,
	posts *service.PostService,
	comments *service.CommentService,
	relations service.RelationshipService,
) *Handler {
	return &Handler{
		cfg:       cfg,
		sessions:  sessions,
		users:     users,
		posts:     posts,
		comments:  comments,
		relations: relations,
	}
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Success 200 {object} response.MessageBody
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Message(c, 200, "Healthy", nil)
}
