package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelGating(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeTarget, true},
		{LevelError, ScopeSymbol, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeTarget, false},
		{LevelDetail, ScopeTarget, true},
		{LevelDetail, ScopeSymbol, false},
		{LevelDebug, ScopeSymbol, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%s/%s: expected %t, got %t", tc.level, tc.scope, tc.want, got)
		}
	}
}

func TestRingRecordsSpansAndPoints(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	span := Begin(ring, ScopePass, "render", 0)
	Point(ring, ScopeSymbol, "allowlist", "app_net_send_tp", span.ID())
	span.WithExtra("targets", "2").End("ok")

	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Kind != KindSpanBegin || events[1].Kind != KindPoint || events[2].Kind != KindSpanEnd {
		t.Fatalf("unexpected kinds: %s %s %s", events[0].Kind, events[1].Kind, events[2].Kind)
	}
	if events[1].ParentID != span.ID() || events[1].Detail != "app_net_send_tp" {
		t.Fatalf("point not attached to span: %+v", events[1])
	}
	if events[2].Extra["targets"] != "2" {
		t.Fatalf("missing extra on end event")
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeDriver, name, "", 0)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected ring contents: %+v", events)
	}
}

func TestStreamTextFormat(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDetail, FormatText)
	Point(st, ScopeTarget, "commit", "out.h", 0)
	Point(st, ScopeSymbol, "allowlist", "hidden", 0)

	out := buf.String()
	if !strings.Contains(out, "• target:commit (out.h)") {
		t.Fatalf("unexpected stream output %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("symbol scope must be filtered at detail level: %q", out)
	}
}

func TestStreamSilentAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelError, FormatText)
	Point(st, ScopeDriver, "generate", "", 0)
	if buf.Len() != 0 {
		t.Fatalf("error level must not stream, got %q", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := Ring(tr); !ok {
		t.Fatalf("both mode must expose a ring")
	}
	off, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil || off.Enabled() {
		t.Fatalf("off level must yield a disabled tracer")
	}
	if _, err := ParseMode("tape"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without tracer")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatalf("tracer not propagated")
	}
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	if CurrentSpan(ctx).SpanID != 7 {
		t.Fatalf("span context not propagated")
	}
}

func TestWithSpanParentsNestedWork(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	pass := Begin(ring, ScopePass, "render", CurrentSpan(ctx).SpanID)
	ctx = WithSpan(ctx, pass)
	target := Begin(ring, ScopeTarget, "header", CurrentSpan(ctx).SpanID)
	target.End("")
	pass.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if got := events[1].ParentID; got != pass.ID() {
		t.Fatalf("target parent = %d, want %d", got, pass.ID())
	}
	if WithSpan(context.Background(), nil) == nil {
		t.Fatalf("nil span should still yield a context")
	}
	if CurrentSpan(WithSpan(context.Background(), nil)).SpanID != 0 {
		t.Fatalf("nil span should reset to root")
	}
}
