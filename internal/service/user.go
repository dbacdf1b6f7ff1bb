package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
)

// ErrUserExists 用户名或邮箱已被占用。
var ErrUserExists = apperr.Conflict("Username or email already exists")

const bcryptCost = 12

// UserService 账号 CRUD 与用户墙。
type UserService struct {
	users   repository.UserRepository
	posts   repository.PostRepository
	viewSvc *PostViewAssembler
}

func NewUserService(users repository.UserRepository, posts repository.PostRepository, viewSvc *PostViewAssembler) *UserService {
	return &UserService{users: users, posts: posts, viewSvc: viewSvc}
}

// Register 创建账号：邮箱小写归一，密码 bcrypt 哈希后入库。
// 先查重给出明确 409，唯一约束兜底并发竞争。
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, page, pageSize int) ([]*model.User, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.users.List(ctx, (page-1)*pageSize, pageSize)
}

// UserUpdate 可选更新字段。
type UserUpdate struct {
	Username string
	Email    string
	Password string
}

// Update 仅本人可改。换密码重新哈希；换邮箱重新小写归一。
func (s *UserService) Update(ctx context.Context, actorID, userID string, upd UserUpdate) (*model.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !CanMutateUser(actorID, u.ID) {
		return nil, ErrForbidden
	}
	if upd.Username != "" {
		u.Username = strings.TrimSpace(upd.Username)
	}
	if upd.Email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(upd.Email))
	}
	if upd.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		u.Password = string(hash)
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

// Delete 仅本人可删；硬删除并级联清理帖子、评论与社交边，
// 在途令牌随账号消失自然失效（AuthGate 每请求回查账号）。
func (s *UserService) Delete(ctx context.Context, actorID, userID string) error {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !CanMutateUser(actorID, u.ID) {
		return ErrForbidden
	}
	return s.users.Delete(ctx, u.ID)
}

// Wall 用户墙：该用户的帖子，新帖在前。
func (s *UserService) Wall(ctx context.Context, userID string, page, pageSize int) ([]*model.PostView, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	posts, err := s.posts.ListByAuthor(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return s.viewSvc.Assemble(ctx, posts)
}
