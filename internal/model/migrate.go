package model

import "gorm.io/gorm"

// AutoMigrate 建表（启动时与测试夹具共用）。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Post{},
		&Comment{},
		&Follow{},
		&Fan{},
		&Reaction{},
	)
}
