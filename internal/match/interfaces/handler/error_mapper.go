package handler

import (
	"context"
	"errors"

	"Warfront/internal/match/actor"
	"Warfront/internal/shared/transport"
	"Warfront/modules/kit/errx"
	"Warfront/modules/kit/logx"
)

// HandleError 业务拒绝原样返回 message；系统错误记 sys 日志，只返回通用提示。
func HandleError(ctx context.Context, l logx.Logger, err error) (int, string) {
	if err == nil {
		return transport.OK, ""
	}
	var e *errx.Error
	if errors.As(err, &e) {
		transport.SetErrorReason(ctx, string(e.Code()))
		if e.IsBiz() {
			return actor.CodeFromError(err), e.Msg()
		}
	}
	code := actor.CodeFromError(err)
	if code < transport.SystemError {
		return code, err.Error()
	}
	logx.ReportSysErrorWithLoggerContext(ctx, l, logx.NewSysLog(transport.ActionFrom(ctx), err))
	return transport.SystemError, "系统繁忙，请稍后重试"
}
