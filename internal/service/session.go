package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
)

var (
	// ErrInvalidCredentials 账号不存在与密码错误返回同一错误，避免枚举。
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")
	ErrSessionInvalid     = apperr.Unauthorized("Invalid or expired session")
	ErrNoSession          = apperr.Unauthorized("No active session found")
)

// LoginResult 登录产物。
type LoginResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// SessionService 会话生命周期：登录、刷新、登出。
// 每个账号只有一个会话槽位（User.RefreshTokenID），新登录无条件覆盖旧值，
// 覆盖即吊销：旧 refresh token 立即失效。
type SessionService struct {
	users  repository.UserRepository
	tokens *TokenService
}

func NewSessionService(users repository.UserRepository, tokens *TokenService) *SessionService {
	return &SessionService{users: users, tokens: tokens}
}

// AccessTTLSeconds access cookie 的 max-age。
func (s *SessionService) AccessTTLSeconds() int64 { return int64(s.tokens.AccessTTL().Seconds()) }

// RefreshTTLSeconds refresh cookie 的 max-age。
func (s *SessionService) RefreshTTLSeconds() int64 { return int64(s.tokens.RefreshTTL().Seconds()) }

// Login 按用户名或邮箱定位账号并核对密码；成功后签发双令牌并覆盖会话槽位。
// username 与 email 由调用方二选一传入。
func (s *SessionService) Login(ctx context.Context, username, email, password string) (*LoginResult, error) {
	var (
		user *model.User
		err  error
	)
	if username != "" {
		user, err = s.users.GetByUsername(ctx, username)
	} else {
		user, err = s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	// 覆盖写：并发登录以落库顺序为准，后写者胜出
	if err := s.users.UpdateRefreshTokenID(ctx, user.ID, &pair.RefreshTokenID); err != nil {
		return nil, err
	}
	user.RefreshTokenID = &pair.RefreshTokenID
	return &LoginResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Refresh 校验 refresh token 签名后，再比对账号上的会话槽位（有状态吊销检查）。
// 槽位不匹配说明令牌已被后续登录或登出作废。本设计不轮换 refresh token。
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*model.User, string, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, "", ErrSessionInvalid
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrSessionInvalid
		}
		return nil, "", err
	}
	if user.RefreshTokenID == nil || *user.RefreshTokenID != claims.ID {
		return nil, "", ErrSessionInvalid
	}
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, "", err
	}
	return user, access, nil
}

// Logout 尽力从任一令牌解析账号并清空会话槽位。
// access token 过期不视为失败，静默回退到 refresh token。
func (s *SessionService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	var user *model.User

	if accessToken != "" {
		if claims, err := s.tokens.VerifyAccess(accessToken); err == nil {
			if u, err := s.users.GetByID(ctx, claims.UserID); err == nil {
				user = u
			}
		}
	}
	if user == nil && refreshToken != "" {
		claims, err := s.tokens.VerifyRefresh(refreshToken)
		if err != nil {
			return ErrSessionInvalid
		}
		u, err := s.users.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSessionInvalid
			}
			return err
		}
		user = u
	}
	if user == nil {
		return ErrSessionInvalid
	}
	return s.users.UpdateRefreshTokenID(ctx, user.ID, nil)
}
