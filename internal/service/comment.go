package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
)

var ErrCommentNotFound = apperr.NotFound("Comment not found")

// CommentService 评论 CRUD。删除是双主体规则：评论作者或帖子作者。
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// Create 评论必须挂在存在的帖子下。
func (s *CommentService) Create(ctx context.Context, authorID, postID, content string) (*model.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	c := &model.Comment{
		ID:       uuid.New().String(),
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) ListForPost(ctx context.Context, postID string, page, pageSize int) ([]*model.Comment, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	return s.comments.ListByPost(ctx, postID, (page-1)*pageSize, pageSize)
}

func (s *CommentService) Get(ctx context.Context, id string) (*model.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return c, nil
}

// Update 仅评论作者可改。
func (s *CommentService) Update(ctx context.Context, actorID, commentID, content string) (*model.Comment, error) {
	c, err := s.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !CanUpdateComment(actorID, c) {
		return nil, ErrForbidden
	}
	if content != "" {
		c.Content = content
	}
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete 评论作者或帖子作者可删；其余主体 403。
func (s *CommentService) Delete(ctx context.Context, actorID, commentID string) error {
	c, err := s.Get(ctx, commentID)
	if err != nil {
		return err
	}
	// 父帖缺失时仅按评论作者判定
	post, err := s.posts.GetByID(ctx, c.PostID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if !CanDeleteComment(actorID, c, post) {
		return ErrForbidden
	}
	return s.comments.Delete(ctx, c.ID)
}
