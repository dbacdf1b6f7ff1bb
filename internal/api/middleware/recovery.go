package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sns-backend/pkg/apperr"
	"github.com/d60-Lab/sns-backend/pkg/response"
)

// Recovery panic 降级为 500，响应体不泄露内部信息。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Error(c, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
	})
}
