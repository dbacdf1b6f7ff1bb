package model

import "time"

// Fan 粉丝关系（user 的粉丝是 fan），由 FanReplicator 从 Follow 异步冗余，
// 供粉丝列表读路径使用。
type Fan struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index:idx_fan_user;index:idx_fan_pair,unique;not null" json:"userId"`
	FanID     string    `gorm:"type:varchar(36);not null;index:idx_fan_pair,unique" json:"fanId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Fan) TableName() string { return "fans" }
