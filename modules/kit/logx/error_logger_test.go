package logx

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"Warfront/modules/kit/errx"
)

func TestReportBiz_指令丢弃落在debug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportBizWithLoggerContext(context.Background(), l, NewBizLog("intent_dropped", "not_owner", "entity does not belong to acting player"),
		zap.String("session_id", "s-1"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries=%d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.DebugLevel {
		t.Fatalf("level=%s", e.Level)
	}
	fields := e.ContextMap()
	if fields["err_type"] != "biz" || fields["reason"] != "not_owner" || fields["session_id"] != "s-1" {
		t.Fatalf("fields=%v", fields)
	}
}

func TestReportSysError_带错误码和cause链(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	err := errx.NewSys("MATCH_STORE", "save match").WithCause(errors.New("connection refused"))
	ReportSysErrorWithLoggerContext(context.Background(), l, NewSysLog("archive_save", err))

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("entries=%+v", entries)
	}
	fields := entries[0].ContextMap()
	if fields["error_code"] != "MATCH_STORE" {
		t.Fatalf("error_code=%v", fields["error_code"])
	}
	if _, ok := fields["cause_chain"]; !ok {
		t.Fatalf("missing cause_chain: %v", fields)
	}
	if _, ok := fields["stack_origin"]; !ok {
		t.Fatalf("sys error should carry stack")
	}
}

func TestReportAccess_按业务码分级(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportAccessWithLoggerContext(context.Background(), l, "action_move", 0)
	ReportAccessWithLoggerContext(context.Background(), l, "action_move", 1)
	ReportAccessWithLoggerContext(context.Background(), l, "action_move", 500)

	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range logs.All() {
		if e.Level != want[i] {
			t.Fatalf("entry %d level=%s, want %s", i, e.Level, want[i])
		}
	}
}

func TestWith_子logger固定携带字段(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core)).With(zap.String("session_id", "s-9"))
	l.Info("tick")
	if got := logs.All()[0].ContextMap()["session_id"]; got != "s-9" {
		t.Fatalf("session_id=%v", got)
	}
}
