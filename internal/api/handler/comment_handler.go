package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sns-backend/internal/api/middleware"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
	"github.com/d60-Lab/sns-backend/pkg/response"
)

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment 评论
// @Summary 在帖子下创建评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param postId path string true "帖子ID"
// @Param request body commentRequest true "评论内容"
// @Success 201 {object} model.Comment
// @Failure 404 {object} response.ErrorBody
// @Router /comment/post/{postId} [post]
func (h *Handler) CreateComment(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.BadRequest("Content is required"))
		return
	}
	cm, err := h.comments.Create(c.Request.Context(), actor.ID, c.Param("postId"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, cm)
}

// ListComments 帖子下全部评论
// @Summary 某帖子的评论列表
// @Tags 评论
// @Produce json
// @Param postId path string true "帖子ID"
// @Success 200 {array} model.Comment
// @Router /comment/post/{postId} [get]
func (h *Handler) ListComments(c *gin.Context) {
	page, size := pagination(c)
	cms, err := h.comments.ListForPost(c.Request.Context(), c.Param("postId"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cms)
}

// GetComment 评论详情
// @Summary 按 ID 查评论
// @Tags 评论
// @Produce json
// @Param id path string true "评论ID"
// @Success 200 {object} model.Comment
// @Failure 404 {object} response.ErrorBody
// @Router /comment/{id} [get]
func (h *Handler) GetComment(c *gin.Context) {
	cm, err := h.comments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cm)
}

// UpdateComment 改评论（仅评论作者）
// @Summary 更新评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param id path string true "评论ID"
// @Param request body updateCommentRequest true "新内容"
// @Success 200 {object} model.Comment
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /comment/{id} [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.BadRequest(err.Error()))
		return
	}
	cm, err := h.comments.Update(c.Request.Context(), actor.ID, c.Param("id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cm)
}

// DeleteComment 删评论（评论作者或帖子作者）
// @Summary 删除评论
// @Tags 评论
// @Param id path string true "评论ID"
// @Success 204
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /comment/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	actor, _ := middleware.IdentityFrom(c)
	if err := h.comments.Delete(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
