package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 结构化字段 + ctx 透传（trace/span）。
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
	// With 返回固定携带 fields 的子 logger，session actor 用它打上 session_id。
	With(fields ...zap.Field) Logger
}
