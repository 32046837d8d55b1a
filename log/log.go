package log

import (
	"go.uber.org/zap"
)

// 包级日志方法，统一使用zap全局logger（由config.InitLogger替换）
func l() *zap.Logger {
	return zap.L().WithOptions(zap.AddCallerSkip(1))
}

func Debug(msg string, fields ...zap.Field) {
	l().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	l().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	l().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	l().Error(msg, fields...)
}

func Sync() {
	_ = zap.L().Sync()
}
