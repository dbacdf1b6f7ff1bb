package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
)

var ErrPostNotFound = apperr.NotFound("Post not found")

// PostViewAssembler 给一批帖子挂上点赞/点踩用户列表（单次批量查询）。
type PostViewAssembler struct {
	reactions repository.ReactionRepository
}

func NewPostViewAssembler(reactions repository.ReactionRepository) *PostViewAssembler {
	return &PostViewAssembler{reactions: reactions}
}

func (a *PostViewAssembler) Assemble(ctx context.Context, posts []*model.Post) ([]*model.PostView, error) {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	rows, err := a.reactions.ListUsersByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked := make(map[string][]model.UserRef)
	disliked := make(map[string][]model.UserRef)
	for _, r := range rows {
		ref := model.UserRef{ID: r.UserID, Username: r.Username}
		if r.Kind == model.ReactionLike {
			liked[r.PostID] = append(liked[r.PostID], ref)
		} else {
			disliked[r.PostID] = append(disliked[r.PostID], ref)
		}
	}
	views := make([]*model.PostView, len(posts))
	for i, p := range posts {
		views[i] = &model.PostView{
			Post:       *p,
			LikedBy:    orEmpty(liked[p.ID]),
			DislikedBy: orEmpty(disliked[p.ID]),
		}
	}
	return views, nil
}

func orEmpty(refs []model.UserRef) []model.UserRef {
	if refs == nil {
		return []model.UserRef{}
	}
	return refs
}

// PostService 帖子 CRUD 与点赞/点踩。
type PostService struct {
	posts     repository.PostRepository
	reactions repository.ReactionRepository
	viewSvc   *PostViewAssembler
}

func NewPostService(posts repository.PostRepository, reactions repository.ReactionRepository, viewSvc *PostViewAssembler) *PostService {
	return &PostService{posts: posts, reactions: reactions, viewSvc: viewSvc}
}

func (s *PostService) Create(ctx context.Context, authorID, content string) (*model.Post, error) {
	p := &model.Post{
		ID:       uuid.New().String(),
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Feed 全站信息流：新帖在前，带作者、评论与表态列表。
func (s *PostService) Feed(ctx context.Context, page, pageSize int) ([]*model.PostView, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	posts, err := s.posts.ListDetailed(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return s.viewSvc.Assemble(ctx, posts)
}

func (s *PostService) Get(ctx context.Context, id string) (*model.PostView, error) {
	p, err := s.posts.GetDetailed(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	views, err := s.viewSvc.Assemble(ctx, []*model.Post{p})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Update 仅作者可改；存在性先于鉴权检查。
func (s *PostService) Update(ctx context.Context, actorID, postID, content string) (*model.Post, error) {
	p, err := s.getPlain(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !CanMutatePost(actorID, p) {
		return nil, ErrForbidden
	}
	if content != "" {
		p.Content = content
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete 仅作者可删；连带评论与表态。
func (s *PostService) Delete(ctx context.Context, actorID, postID string) error {
	p, err := s.getPlain(ctx, postID)
	if err != nil {
		return err
	}
	if !CanMutatePost(actorID, p) {
		return ErrForbidden
	}
	return s.posts.Delete(ctx, p.ID)
}

// Like 原子 upsert：已点踩则直接翻转为点赞，两者不可能同时存在。
func (s *PostService) Like(ctx context.Context, actorID, postID string) error {
	return s.react(ctx, actorID, postID, model.ReactionLike)
}

func (s *PostService) Dislike(ctx context.Context, actorID, postID string) error {
	return s.react(ctx, actorID, postID, model.ReactionDislike)
}

// Unlike 仅移除点赞；点踩保持不动。移除不存在的表态为 no-op。
func (s *PostService) Unlike(ctx context.Context, actorID, postID string) error {
	return s.unreact(ctx, actorID, postID, model.ReactionLike)
}

func (s *PostService) Undislike(ctx context.Context, actorID, postID string) error {
	return s.unreact(ctx, actorID, postID, model.ReactionDislike)
}

func (s *PostService) react(ctx context.Context, actorID, postID, kind string) error {
	if _, err := s.getPlain(ctx, postID); err != nil {
		return err
	}
	return s.reactions.Upsert(ctx, actorID, postID, kind)
}

func (s *PostService) unreact(ctx context.Context, actorID, postID, kind string) error {
	if _, err := s.getPlain(ctx, postID); err != nil {
		return err
	}
	return s.reactions.DeleteKind(ctx, actorID, postID, kind)
}

func (s *PostService) getPlain(ctx context.Context, id string) (*model.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}
