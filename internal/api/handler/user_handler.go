package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sns-backend/internal/api/middleware"
	"github.com/d60-Lab/sns-backend/internal/service"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
	"github.com/d60-Lab/sns-backend/pkg/response"
)

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8,max=100,password"`
}

// CreateUser 建号（等同注册，走受保护路由）
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body registerRequest true "用户信息"
// @Success 201 {object} model.User
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /user [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.BadRequest("Username, email, and password are required"))
		return
	}
	u, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, u)
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Success 200 {array} model.User
// @Router /user [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, size := pagination(c)
	us, err := h.users.List(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, us)
}

// GetUser 用户详情
// @Summary 按 ID 查用户
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} model.User
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, u)
}

// UpdateUser 改资料（仅本人）
// @Summary 更新用户资料
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path string true "用户ID"
// @Param request body updateUserRequest true "更新字段"
// @Success 200 {object} model.User
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.BadRequest(err.Error()))
		return
	}
	u, err := h.users.Update(c.Request.Context(), actor.ID, c.Param("id"), service.UserUpdate{
		Username: req.Username, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, u)
}

// DeleteUser 删号（仅本人，级联清理）
// @Summary 删除用户
// @Tags 用户
// @Param id path string true "用户ID"
// @Success 204
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	if err := h.users.Delete(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetWall 用户墙
// @Summary 某用户的全部帖子（新帖在前）
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {array} model.PostView
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id}/wall [get]
func (h *Handler) GetWall(c *gin.Context) {
	page, size := pagination(c)
	views, err := h.users.Wall(c.Request.Context(), c.Param("id"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// ListFollowers 粉丝列表（读冗余 fans 表 + 缓存）
// @Summary 某用户的粉丝
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {array} model.UserRef
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, size := pagination(c)
	refs, err := h.relations.ListFollowers(c.Request.Context(), c.Param("id"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, refs)
}

// FollowUser 关注
// @Summary 关注用户
// @Tags 用户
// @Produce json
// @Param id path string true "目标用户ID"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id}/follow [post]
func (h *Handler) FollowUser(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	if err := h.relations.Follow(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User followed", nil)
}

// UnfollowUser 取关
// @Summary 取消关注
// @Tags 用户
// @Produce json
// @Param id path string true "目标用户ID"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id}/unfollow [post]
func (h *Handler) UnfollowUser(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	if err := h.relations.Unfollow(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User unfollowed", nil)
}

func pagination(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, size
}
