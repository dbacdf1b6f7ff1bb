package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation 识别唯一约束冲突。
// 依赖 gorm 的 TranslateError；字符串兜底覆盖未翻译的驱动错误
// （sqlite: "UNIQUE constraint failed"，postgres: SQLSTATE 23505）。
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
