package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sns-backend/internal/api/middleware"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
	"github.com/d60-Lab/sns-backend/pkg/response"
)

type postRequest struct {
	Content string `json:"content" binding:"required"`
}

type updatePostRequest struct {
	Content string `json:"content"`
}

// CreatePost 发帖
// @Summary 创建帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body postRequest true "帖子内容"
// @Success 201 {object} model.Post
// @Failure 400 {object} response.ErrorBody
// @Router /post [post]
func (h *Handler) CreatePost(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.BadRequest("Content is required"))
		return
	}
	p, err := h.posts.Create(c.Request.Context(), actor.ID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, p)
}

// Feed 信息流
// @Summary 全站帖子（新帖在前，含作者/评论/表态）
// @Tags 帖子
// @Produce json
// @Success 200 {array} model.PostView
// @Router /post [get]
func (h *Handler) Feed(c *gin.Context) {
	page, size := pagination(c)
	views, err := h.posts.Feed(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// GetPost 帖子详情
// @Summary 按 ID 查帖子
// @Tags 帖子
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} model.PostView
// @Failure 404 {object} response.ErrorBody
// @Router /post/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	v, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, v)
}

// UpdatePost 改帖（仅作者）
// @Summary 更新帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param id path string true "帖子ID"
// @Param request body updatePostRequest true "新内容"
// @Success 200 {object} model.Post
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /post/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.BadRequest(err.Error()))
		return
	}
	p, err := h.posts.Update(c.Request.Context(), actor.ID, c.Param("id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// DeletePost 删帖（仅作者）
// @Summary 删除帖子
// @Tags 帖子
// @Param id path string true "帖子ID"
// @Success 204
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /post/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	if err := h.posts.Delete(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LikePost 点赞（自动覆盖原点踩）
// @Summary 点赞帖子
// @Tags 帖子
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} response.MessageBody
// @Failure 404 {object} response.ErrorBody
// @Router /post/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	if err := h.posts.Like(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Post liked", nil)
}

// UnlikePost 取消点赞
// @Summary 移除点赞
// @Tags 帖子
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} response.MessageBody
// @Failure 404 {object} response.ErrorBody
// @Router /post/{id}/unlike [post]
func (h *Handler) UnlikePost(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	if err := h.posts.Unlike(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Like removed", nil)
}

// DislikePost 点踩（自动覆盖原点赞）
// @Summary 点踩帖子
// @Tags 帖子
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} response.MessageBody
// @Failure 404 {object} response.ErrorBody
// @Router /post/{id}/dislike [post]
func (h *Handler) DislikePost(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	if err := h.posts.Dislike(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Post disliked", nil)
}

// UndislikePost 取消点踩
// @Summary 移除点踩
// @Tags 帖子
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} response.MessageBody
// @Failure 404 {object} response.ErrorBody
// @Router /post/{id}/undislike [post]
func (h *Handler) UndislikePost(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	if err := h.posts.Undislike(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Dislike removed", nil)
}
