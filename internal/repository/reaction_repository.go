package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/sns-backend/internal/model"
)

// ReactionUser 某个帖子下的一条表态及其用户摘要。
type ReactionUser struct {
	PostID   string `json:"postId"`
	Kind     string `json:"kind"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type ReactionRepository interface {
	// Upsert 以 (user_id, post_id) 为键原子写入表态；
	// 已有相反方向的行时直接翻转 kind，互斥由单行保证。
	Upsert(ctx context.Context, userID, postID, kind string) error
	// DeleteKind 仅删除指定方向的表态；相反方向保持不动。
	DeleteKind(ctx context.Context, userID, postID, kind string) error
	Get(ctx context.Context, userID, postID string) (*model.Reaction, error)
	// ListUsersByPosts 批量查询一组帖子的表态与用户名。
	ListUsersByPosts(ctx context.Context, postIDs []string) ([]ReactionUser, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository { return &reactionRepository{db: db} }

func (r *reactionRepository) Upsert(ctx context.Context, userID, postID, kind string) error {
	rec := &model.Reaction{
		ID:     uuid.New().String(),
		UserID: userID,
		PostID: postID,
		Kind:   kind,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"kind":       kind,
			"updated_at": time.Now(),
		}),
	}).Create(rec).Error
}

func (r *reactionRepository) DeleteKind(ctx context.Context, userID, postID, kind string) error {
	// 不存在时为 no-op
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).
		Delete(&model.Reaction{}).Error
}

func (r *reactionRepository) Get(ctx context.Context, userID, postID string) (*model.Reaction, error) {
	var rec model.Reaction
	err := r.db.WithContext(ctx).
		First(&rec, "user_id = ? AND post_id = ?", userID, postID).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &rec, nil
}

func (r *reactionRepository) ListUsersByPosts(ctx context.Context, postIDs []string) ([]ReactionUser, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var rows []ReactionUser
	err := r.db.WithContext(ctx).
		Table("reactions").
		Select("reactions.post_id", "reactions.kind", "users.id AS user_id", "users.username").
		Joins("JOIN users ON users.id = reactions.user_id").
		Where("reactions.post_id IN ?", postIDs).
		Order("reactions.created_at").
		Scan(&rows).Error
	return rows, err
}
