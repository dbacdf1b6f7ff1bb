package model

import "time"

// Follow 关注关系（follower 关注 followee）
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FollowerID string `gorm:"type:varchar(36);index:idx_follow_follower;index:idx_follow_pair,unique;not null" json:"followerId"`
	FolloweeID string `gorm:"type:varchar(36);not null;index:idx_follow_pair,unique" json:"followeeId"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (follower_id, followee_id)
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Follow) TableName() string { return "follows" }
