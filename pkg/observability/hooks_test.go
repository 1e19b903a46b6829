package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnGenerateStart(ctx, 10, 42)
	p.OnGenerateComplete(ctx, 10, 42, time.Millisecond, nil)
	p.OnRenderStart(ctx, "floorplan", []string{"svg"})
	p.OnRenderComplete(ctx, "floorplan", []string{"svg"}, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "level")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopStoreHooks{}
	s.OnSave(ctx, "memory", "id", time.Millisecond, nil)
	s.OnLoad(ctx, "memory", "id", true, time.Millisecond)
	s.OnDelete(ctx, "memory", "id", nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/v1/levels")
	h.OnResponse(ctx, "GET", "/v1/levels", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should default to NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should default to NoopStoreHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should default to NoopHTTPHooks")
	}

	p := &testPipelineHooks{}
	SetPipelineHooks(p)
	if Pipeline() != p {
		t.Error("SetPipelineHooks did not register")
	}
	c := &testCacheHooks{}
	SetCacheHooks(c)
	if Cache() != c {
		t.Error("SetCacheHooks did not register")
	}
	s := &testStoreHooks{}
	SetStoreHooks(s)
	if Store() != s {
		t.Error("SetStoreHooks did not register")
	}
	h := &testHTTPHooks{}
	SetHTTPHooks(h)
	if HTTP() != h {
		t.Error("SetHTTPHooks did not register")
	}

	Reset()
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
