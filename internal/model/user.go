package model

import "time"

// User 用户（邮箱统一小写存储）
type User struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:text;not null" json:"-"`
	// RefreshTokenID 当前有效 refresh token 的 jti（单会话槽位）。
	// 只存标识符不存令牌本身；为 nil 表示无有效会话。
	RefreshTokenID *string   `gorm:"type:varchar(36)" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserRef 嵌入在帖子/粉丝列表中的用户摘要
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
}
