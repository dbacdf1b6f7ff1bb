package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/sns-backend/pkg/apperr"
	"github.com/d60-Lab/sns-backend/pkg/logger"
)

var production bool

// Init 设置运行环境；非 production 时错误响应附带 stack 便于调试。
func Init(env string) { production = env == "production" }

// ErrorBody 错误响应体。
type ErrorBody struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// MessageBody 携带提示信息与可选 user 字段的响应体。
type MessageBody struct {
	Message string `json:"message"`
	User    any    `json:"user,omitempty"`
}

// JSON 原样返回资源。
func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// Message 返回 {message, user?}。
func Message(c *gin.Context, status int, message string, user any) {
	c.JSON(status, MessageBody{Message: message, User: user})
}

// Error 统一错误出口：映射状态码、记录 5xx、必要时附带 stack。
func Error(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.Status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(e.Err),
		)
	}
	body := ErrorBody{Message: e.Message}
	if !production && e.Stack != "" {
		body.Stack = e.Stack
	}
	c.AbortWithStatusJSON(e.Status, body)
}
