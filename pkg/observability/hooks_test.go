package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingTransformHooks struct {
	starts    int
	completes int
	layouts   int
	lastAlgo  string
	lastErr   error
}

func (h *recordingTransformHooks) OnTransformStart(ctx context.Context, nodeCount, edgeCount int) {
	h.starts++
}

func (h *recordingTransformHooks) OnTransformComplete(ctx context.Context, renderedNodes, renderedEdges int, duration time.Duration, err error) {
	h.completes++
	h.lastErr = err
}

func (h *recordingTransformHooks) OnLayoutComputed(ctx context.Context, algorithm string, nodeCount int, duration time.Duration) {
	h.layouts++
	h.lastAlgo = algorithm
}

type recordingCacheHooks struct {
	hits   int
	misses int
	sets   int
}

func (h *recordingCacheHooks) OnCacheHit(ctx context.Context, keyType string)  { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(ctx context.Context, keyType string) { h.misses++ }
func (h *recordingCacheHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.sets++
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// No-op hooks should not panic.
	Transform().OnTransformStart(ctx, 10, 20)
	Transform().OnTransformComplete(ctx, 5, 8, time.Millisecond, nil)
	Transform().OnLayoutComputed(ctx, "force", 10, time.Millisecond)
	Cache().OnCacheHit(ctx, "scene")
	Cache().OnCacheMiss(ctx, "scene")
	Cache().OnCacheSet(ctx, "scene", 128)
}

func TestSetTransformHooks(t *testing.T) {
	defer Reset()
	ctx := context.Background()

	rec := &recordingTransformHooks{}
	SetTransformHooks(rec)

	Transform().OnTransformStart(ctx, 4, 3)
	Transform().OnTransformComplete(ctx, 4, 3, time.Millisecond, errors.New("boom"))
	Transform().OnLayoutComputed(ctx, "radial", 4, time.Microsecond)

	if rec.starts != 1 || rec.completes != 1 || rec.layouts != 1 {
		t.Errorf("hook counts = %d/%d/%d, want 1/1/1", rec.starts, rec.completes, rec.layouts)
	}
	if rec.lastAlgo != "radial" {
		t.Errorf("lastAlgo = %q, want radial", rec.lastAlgo)
	}
	if rec.lastErr == nil {
		t.Error("error should be passed through to the hook")
	}
}

func TestSetCacheHooks(t *testing.T) {
	defer Reset()
	ctx := context.Background()

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)

	Cache().OnCacheHit(ctx, "scene")
	Cache().OnCacheHit(ctx, "scene")
	Cache().OnCacheMiss(ctx, "layout")
	Cache().OnCacheSet(ctx, "scene", 256)

	if rec.hits != 2 || rec.misses != 1 || rec.sets != 1 {
		t.Errorf("hook counts = %d/%d/%d, want 2/1/1", rec.hits, rec.misses, rec.sets)
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	defer Reset()

	rec := &recordingTransformHooks{}
	SetTransformHooks(rec)
	SetTransformHooks(nil)

	Transform().OnTransformStart(context.Background(), 1, 1)
	if rec.starts != 1 {
		t.Error("nil registration should not replace the current hooks")
	}
}

func TestReset(t *testing.T) {
	SetTransformHooks(&recordingTransformHooks{})
	SetCacheHooks(&recordingCacheHooks{})
	Reset()

	if _, ok := Transform().(NoopTransformHooks); !ok {
		t.Error("Reset should restore NoopTransformHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore NoopCacheHooks")
	}
}
