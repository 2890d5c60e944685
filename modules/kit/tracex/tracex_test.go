package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
	if _, ok := SpanIDFrom(ctx); ok {
		t.Fatalf("未设置 span 时不应返回 ok")
	}
}

func TestNewTraceID_长度(t *testing.T) {
	if id := NewTraceID(); len(id) != 32 {
		t.Fatalf("期望 32 位 hex，got=%q", id)
	}
}
