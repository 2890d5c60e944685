package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Warfront/modules/kit/logx"
	"Warfront/modules/kit/tracex"
)

// AccessLog 一次 HTTP 请求或一条 ws 消息的访问记录。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	SessionID   string
	PlayerID    string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 保留 parent 的取消信号，附加 trace id 与 AccessLog。
// 默认 BizCode 为 SystemError，处理函数必须显式写回结果。
func NewContextWithParent(parent context.Context, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := parent
	if traceID := tracex.NewTraceID(); traceID != "" {
		ctx = tracex.WithTraceID(ctx, traceID)
	}
	ctx = tracex.WithSpanID(ctx, "arena")
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

// ActionFrom 没有 AccessLog 时返回空串。
func ActionFrom(ctx context.Context) string {
	if al := FromContext(ctx); al != nil {
		return al.action
	}
	return ""
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// SetSeat 记录请求所属的对局与玩家。
func SetSeat(ctx context.Context, sessionID, playerID string) {
	if al := FromContext(ctx); al != nil {
		al.SessionID = sessionID
		al.PlayerID = playerID
	}
}

func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	fields := []zap.Field{zap.Duration("latency", time.Since(al.startTime))}
	if al.SessionID != "" {
		fields = append(fields, zap.String("session_id", al.SessionID))
	}
	if al.PlayerID != "" {
		fields = append(fields, zap.String("player_id", al.PlayerID))
	}
	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(al.BizCode), fields...)
}
