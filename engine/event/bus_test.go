package event

import (
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recorder struct {
	types []Type
	got   []Event
}

func (r *recorder) HandleEvent(ev Event) { r.got = append(r.got, ev) }
func (r *recorder) EventTypes() []Type   { return r.types }

func TestBusRoutesByType(t *testing.T) {
	b := NewBus(testLogger())
	fwd := &recorder{types: []Type{CameraFwd}}
	both := &recorder{types: []Type{CameraFwd, CameraStop}}
	b.Subscribe(fwd)
	b.Subscribe(both)

	b.Publish(CameraFwd, nil, Amount{Value: 1})
	b.Publish(CameraStop, nil, nil)
	b.Publish(CameraRoll, nil, Amount{Value: 2})

	if len(fwd.got) != 1 {
		t.Errorf("expected 1 event for fwd handler, got %d", len(fwd.got))
	}
	if len(both.got) != 2 {
		t.Errorf("expected 2 events for both handler, got %d", len(both.got))
	}
	if a, ok := fwd.got[0].Payload.(Amount); !ok || a.Value != 1 {
		t.Errorf("unexpected payload %#v", fwd.got[0].Payload)
	}
}

func TestBusSubscribeIdempotent(t *testing.T) {
	b := NewBus(testLogger())
	r := &recorder{types: []Type{CameraFwd}}
	b.Subscribe(r)
	b.Subscribe(r)
	if n := b.HandlerCount(CameraFwd); n != 1 {
		t.Fatalf("expected 1 handler, got %d", n)
	}
	b.Unsubscribe(r)
	if n := b.HandlerCount(CameraFwd); n != 0 {
		t.Fatalf("expected 0 handlers after unsubscribe, got %d", n)
	}
}

func TestBusReentrantPublish(t *testing.T) {
	b := NewBus(testLogger())
	tail := &recorder{types: []Type{CameraStop}}
	b.Subscribe(tail)

	var chain *HandlerFunc
	chain = &HandlerFunc{
		Types: []Type{CameraFwd},
		Fn: func(ev Event) {
			// Publishing and unsubscribing from a handler must not deadlock.
			b.Publish(CameraStop, chain, nil)
			b.Unsubscribe(chain)
		},
	}
	b.Subscribe(chain)

	b.Publish(CameraFwd, nil, Amount{Value: 1})
	b.Publish(CameraFwd, nil, Amount{Value: 1})

	if len(tail.got) != 1 {
		t.Errorf("expected the chained event once, got %d", len(tail.got))
	}
	if tail.got[0].Source != chain {
		t.Error("expected the chain handler as source")
	}
}

func TestTypeString(t *testing.T) {
	if CameraModeCmd.String() != "camera_mode_cmd" {
		t.Errorf("unexpected name %q", CameraModeCmd.String())
	}
	if Type(-1).String() != "unknown" {
		t.Errorf("unexpected name for invalid type")
	}
}
