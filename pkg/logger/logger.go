package logger

import (
	"go.uber.org/zap"
)

var l = zap.NewNop()

// Init 按环境初始化全局 logger（production 使用 JSON 编码）。
func Init(env string) error {
	var (
		lg  *zap.Logger
		err error
	)
	if env == "production" {
		lg, err = zap.NewProduction()
	} else {
		lg, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	l = lg
	return nil
}

// L 返回全局 logger。
func L() *zap.Logger { return l }

func Debug(msg string, fields ...zap.Field) { l.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { l.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { l.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { l.Error(msg, fields...) }

func Sync() { _ = l.Sync() }
