package model

import "time"

// ReactionKind 取值
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Reaction 点赞/点踩：同一 (user, post) 只存一行，kind 区分方向。
// 单表 + 原子 upsert，天然保证 like 与 dislike 互斥。
type Reaction struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index:idx_reaction_pair,unique;not null" json:"userId"`
	PostID    string    `gorm:"type:varchar(36);index:idx_reaction_pair,unique;index:idx_reaction_post;not null" json:"postId"`
	Kind      string    `gorm:"type:varchar(8);not null" json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Reaction) TableName() string { return "reactions" }
