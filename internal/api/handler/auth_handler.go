package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sns-backend/internal/api/middleware"
	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/service"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
	"github.com/d60-Lab/sns-backend/pkg/response"
)

// RefreshCookie refresh token 所在的 cookie 名。
const RefreshCookie = "refreshToken"

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=100,password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}

// Register 注册
// @Summary 注册新用户
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.BadRequest("Username, email and password are required"))
		return
	}
	u, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Successfully registered", u)
}

// Login 登录
// @Summary 用户名或邮箱登录，种下双令牌 cookie
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.BadRequest("Password is required"))
		return
	}
	if req.Username == "" && req.Email == "" {
		response.Error(c, apperr.BadRequest("Either username or email is required"))
		return
	}
	res, err := h.sessions.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setAuthCookies(c, res.AccessToken, res.RefreshToken)
	response.Message(c, http.StatusOK, "User successfully logged in", res.User)
}

// Logout 登出
// @Summary 清除会话与双令牌 cookie
// @Tags 认证
// @Produce json
// @Success 200 {object} response.MessageBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	access, _ := c.Cookie(middleware.AccessCookie)
	refresh, _ := c.Cookie(RefreshCookie)
	if access == "" && refresh == "" {
		response.Error(c, service.ErrNoSession)
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), access, refresh); err != nil {
		response.Error(c, err)
		return
	}
	h.clearAuthCookies(c)
	response.Message(c, http.StatusOK, "Successfully logged out", nil)
}

// Refresh 刷新 access token
// @Summary 用 refresh token 换新的 access token（仅重置 access cookie）
// @Tags 认证
// @Produce json
// @Success 200 {object} response.MessageBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	refresh, _ := c.Cookie(RefreshCookie)
	if refresh == "" {
		response.Error(c, service.ErrNoSession)
		return
	}
	user, access, err := h.sessions.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setCookie(c, middleware.AccessCookie, access, int(h.sessions.AccessTTLSeconds()))
	response.Message(c, http.StatusOK, "Access token successfully generated", user)
}

// Me 当前用户
// @Summary 返回已认证用户信息
// @Tags 认证
// @Produce json
// @Success 200 {object} response.MessageBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Unauthorized("Unauthorized"))
		return
	}
	response.Message(c, http.StatusOK, "Authenticated user info", model.UserRef{
		ID: id.ID, Username: id.Username, Email: id.Email,
	})
}

func (h *Handler) setAuthCookies(c *gin.Context, access, refresh string) {
	h.setCookie(c, middleware.AccessCookie, access, int(h.sessions.AccessTTLSeconds()))
	h.setCookie(c, RefreshCookie, refresh, int(h.sessions.RefreshTTLSeconds()))
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	h.setCookie(c, middleware.AccessCookie, "", -1)
	h.setCookie(c, RefreshCookie, "", -1)
}

// setCookie httpOnly + SameSite=Lax；Secure 仅在 production 开启。
func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cfg.Env == "production", true)
}
