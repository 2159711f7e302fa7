package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEngineHooks{}
	e.OnContainerStart(ctx, "page", 3)
	e.OnSample(ctx, "page", "layouts", 4, time.Second)
	e.OnContainerComplete(ctx, "page", 2, time.Second, nil)

	p := NoopPipelineHooks{}
	p.OnLoadComplete(ctx, 7, time.Second, nil)
	p.OnComputeComplete(ctx, 1, time.Second, nil)
	p.OnEmitComplete(ctx, 2, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "id", "POST", "/v1/layout")
	s.OnResponse(ctx, "id", "POST", "/v1/layout", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	engine := &testEngineHooks{}
	SetEngineHooks(engine)
	if Engine() != engine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	if Cache() != cache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)
	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should keep the registered hooks")
	}
	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testEngineHooks{}
	SetEngineHooks(h)

	ctx := context.Background()
	Engine().OnContainerStart(ctx, "page", 2)
	Engine().OnSample(ctx, "page", "heights", 5, time.Millisecond)
	Engine().OnContainerComplete(ctx, "page", 3, time.Millisecond, nil)

	if h.started != "page" || h.layouts != 3 {
		t.Errorf("recorded (%q, %d), want (page, 3)", h.started, h.layouts)
	}
	if h.sweeps != "heights" {
		t.Errorf("recorded sweep %q, want heights", h.sweeps)
	}
}

type testEngineHooks struct {
	started string
	sweeps  string
	layouts int
}

func (h *testEngineHooks) OnContainerStart(_ context.Context, widget string, _ int) {
	h.started = widget
}

func (h *testEngineHooks) OnSample(_ context.Context, _, sweep string, _ int, _ time.Duration) {
	h.sweeps = sweep
}

func (h *testEngineHooks) OnContainerComplete(_ context.Context, _ string, layouts int, _ time.Duration, _ error) {
	h.layouts = layouts
}

type testCacheHooks struct{}

func (*testCacheHooks) OnCacheHit(context.Context, string)      {}
func (*testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (*testCacheHooks) OnCacheSet(context.Context, string, int) {}
