package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/internal/service"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
	"github.com/d60-Lab/sns-backend/pkg/response"
)

// AccessCookie access token 所在的 cookie 名。
const AccessCookie = "accessToken"

// ErrSessionRevoked 令牌签名有效但账号已不存在（删号后在途令牌的吊销路径）。
var ErrSessionRevoked = apperr.Forbidden("Invalid token or session")

const identityKey = "auth.identity"

// Identity 请求级身份，由 AuthGate 写入 gin context。
type Identity struct {
	ID       string
	Username string
	Email    string
}

// IdentityFrom 取出当前请求身份。
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// AuthGate 每请求身份校验：取 cookie、验签、回查账号仍存在，
// 然后注入类型化身份。回查换一次查询保证删号即吊销。
func AuthGate(tokens *service.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(AccessCookie)
		if err != nil || raw == "" {
			response.Error(c, service.ErrNoSession)
			return
		}
		claims, err := tokens.VerifyAccess(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		if _, err := users.GetByID(c.Request.Context(), claims.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.Error(c, ErrSessionRevoked)
			} else {
				response.Error(c, err)
			}
			return
		}
		c.Set(identityKey, Identity{ID: claims.UserID, Username: claims.Username, Email: claims.Email})
		c.Next()
	}
}
