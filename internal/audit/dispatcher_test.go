package audit

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestDispatcherDeliversToSink(t *testing.T) {
	sink := NewChannelSink(8)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, sink)
	defer d.Close()

	d.Emit(context.Background(), Event{EventType: "auth.rejected", Code: "NO_TOKEN"})

	select {
	case ev := <-sink.Events():
		if ev.EventType != "auth.rejected" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled dispatcher must be nil")
	}

	// nil dispatcher methods are no-ops
	d.Emit(context.Background(), Event{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	sink := sinkFunc(func(context.Context, Event) { <-block })

	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)
	defer func() {
		close(block)
		d.Close()
	}()

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{EventType: "auth.rejected"})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events under backpressure")
	}
}

func TestDispatcherCloseDrains(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	d := NewDispatcher(Config{Enabled: true, BufferSize: 32}, sink)
	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{EventType: "auth.logout", UserID: "user-1"})
	}
	d.Close()

	lines := strings.Count(buf.String(), "\n")
	if lines != 5 {
		t.Fatalf("expected 5 drained events, got %d", lines)
	}
}

func TestJSONWriterSinkShape(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{
		Timestamp: time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC),
		EventType: "auth.rotated",
		UserID:    "user-1",
		TokenID:   "jti-1",
		Success:   true,
	})

	out := buf.String()
	for _, want := range []string{`"event_type":"auth.rotated"`, `"user_id":"user-1"`, `"token_id":"jti-1"`, `"success":true`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

type sinkFunc func(context.Context, Event)

func (f sinkFunc) Emit(ctx context.Context, ev Event) { f(ctx, ev) }
