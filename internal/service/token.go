package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/d60-Lab/sns-backend/config"
	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
)

var (
	ErrTokenExpired   = apperr.Unauthorized("Token expired")
	ErrTokenMalformed = apperr.Unauthorized("Invalid token")
)

// Claims 令牌身份声明。refresh token 的 jti（RegisteredClaims.ID）
// 与用户记录上的会话槽位对应。
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenPair 一次签发的两类令牌。
type TokenPair struct {
	AccessToken    string
	RefreshToken   string
	RefreshTokenID string
}

// TokenService 双密钥签发/校验：access 与 refresh 各用独立密钥，
// 拿错密钥必然校验失败，令牌类别因此无需显式字段。
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(cfg config.JWT) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// WithClock 固定时钟，仅测试使用。
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// Issue 为用户签发 access + refresh 令牌。
func (s *TokenService) Issue(u *model.User) (*TokenPair, error) {
	access, err := s.sign(u, s.accessSecret, s.accessTTL, "")
	if err != nil {
		return nil, err
	}
	refreshID := uuid.New().String()
	refresh, err := s.sign(u, s.refreshSecret, s.refreshTTL, refreshID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, RefreshTokenID: refreshID}, nil
}

// IssueAccess 仅签发新的 access 令牌（refresh 流程使用）。
func (s *TokenService) IssueAccess(u *model.User) (string, error) {
	return s.sign(u, s.accessSecret, s.accessTTL, "")
}

func (s *TokenService) VerifyAccess(token string) (*Claims, error) {
	return s.verify(token, s.accessSecret)
}

func (s *TokenService) VerifyRefresh(token string) (*Claims, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenService) sign(u *model.User, secret []byte, ttl time.Duration, jti string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *TokenService) verify(token string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{},
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
