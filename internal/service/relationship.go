package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
)

var (
	ErrFollowSelf   = apperr.BadRequest("Cannot follow yourself")
	ErrUnfollowSelf = apperr.BadRequest("Cannot unfollow yourself")
	ErrUserNotFound = apperr.NotFound("User not found")
)

// FollowerLister 粉丝列表读路径（缓存实现见 internal/cache）。
type FollowerLister interface {
	ListFollowers(ctx context.Context, userID string, page, size int) ([]model.UserRef, error)
	Invalidate(ctx context.Context, userID string)
}

// RelationshipService 关注关系：写走 follows 表，粉丝读走异步冗余的 fans 表。
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID string) error
	Unfollow(ctx context.Context, fromUserID, toUserID string) error
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]model.UserRef, error)
}

type relationshipService struct {
	users      repository.UserRepository
	followRepo repository.FollowRepository
	followers  FollowerLister
	replicator *FanReplicator
}

func NewRelationshipService(
	users repository.UserRepository,
	followRepo repository.FollowRepository,
	followers FollowerLister,
	replicator *FanReplicator,
) RelationshipService {
	return &relationshipService{users: users, followRepo: followRepo, followers: followers, replicator: replicator}
}

// Follow 自关注在任何鉴权之前拒绝；双方账号必须都存在；重复关注幂等成功。
func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	if err := s.ensureExists(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	if err := s.followRepo.Create(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	if s.replicator != nil {
		s.replicator.EnqueueAdd(toUserID, fromUserID)
	}
	return nil
}

// Unfollow 对称删除；删除不存在的边视为成功。
func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return ErrUnfollowSelf
	}
	if err := s.ensureExists(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	if err := s.followRepo.Delete(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	if s.replicator != nil {
		s.replicator.EnqueueRemove(toUserID, fromUserID)
	}
	return nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize
	items, err := s.followRepo.ListFollowings(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FolloweeID
	}
	return res, nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]model.UserRef, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.followers.ListFollowers(ctx, userID, page, pageSize)
}

func (s *relationshipService) ensureExists(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
	}
	return nil
}
