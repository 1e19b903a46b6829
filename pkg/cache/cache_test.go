package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "level:a"); hit {
		t.Fatal("empty cache should miss")
	}
	if err := c.Set(ctx, "level:a", []byte("maze"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "level:a")
	if err != nil || !hit || string(data) != "maze" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "level:a"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "level:a"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "level:a"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for i := range 5 {
		if err := c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("Clear removed %d entries, want 5", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("%d entries left after Clear", len(entries))
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("root should survive Clear: %v", err)
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if n := len(Hash([]byte("hello"))); n != 64 {
		t.Errorf("len = %d, want 64", n)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LevelKeyOpts{Size: 10, Seed: 42}
	if k.LevelKey(base) != k.LevelKey(base) {
		t.Error("LevelKey should be deterministic")
	}
	if !strings.HasPrefix(k.LevelKey(base), "level:") {
		t.Errorf("LevelKey = %q", k.LevelKey(base))
	}

	variants := []LevelKeyOpts{
		{Size: 11, Seed: 42},
		{Size: 10, Seed: 43},
		{Size: 10, Seed: 42, FloorHoleProbability: 0.1},
		{Size: 10, Seed: 42, DeathWallProbability: 0.1},
		{Size: 10, Seed: 42, NextLevel: "level2"},
	}
	for _, v := range variants {
		if k.LevelKey(v) == k.LevelKey(base) {
			t.Errorf("LevelKey(%+v) collides with base", v)
		}
	}

	svg := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", VizType: "floorplan"})
	png := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png", VizType: "floorplan"})
	sol := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", VizType: "floorplan", Solution: true})
	other := k.ArtifactKey("h2", ArtifactKeyOpts{Format: "svg", VizType: "floorplan"})
	seen := map[string]bool{svg: true, png: true, sol: true, other: true}
	if len(seen) != 4 {
		t.Error("distinct artifact options should give distinct keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tiltmaze:")

	opts := LevelKeyOpts{Size: 5, Seed: 1}
	if got, want := scoped.LevelKey(opts), "tiltmaze:"+inner.LevelKey(opts); got != want {
		t.Errorf("LevelKey = %q, want %q", got, want)
	}
	aopts := ArtifactKeyOpts{Format: "txt"}
	if got, want := scoped.ArtifactKey("h", aopts), "tiltmaze:"+inner.ArtifactKey("h", aopts); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}

	if !strings.HasPrefix(NewScopedKeyer(nil, "p:").LevelKey(opts), "p:level:") {
		t.Error("nil inner keyer should default to DefaultKeyer")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("wrapped error should be retryable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should unwrap to ErrNetwork")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("message = %q", err.Error())
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	plain := errors.New("plain")
	calls = 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return plain }); err != plain || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry then succeed: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrNetwork) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRedisClassify(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"miss", redis.Nil, false},
		{"canceled", context.Canceled, false},
		{"dial", opErr, true},
		{"closed", redis.ErrClosed, true},
		{"server reply", errors.New("WRONGTYPE"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if IsRetryable(got) != tt.retryable {
				t.Errorf("classify(%v) retryable = %v, want %v", tt.err, IsRetryable(got), tt.retryable)
			}
			if tt.retryable && !errors.Is(got, ErrNetwork) {
				t.Errorf("classify(%v) should wrap ErrNetwork", tt.err)
			}
		})
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"", "localhost:6379"},
		{"cache:6380", "cache:6380"},
		{"redis://cache:6381/2", "cache:6381"},
	}
	for _, tt := range tests {
		opts, err := redisOptions(tt.addr)
		if err != nil {
			t.Fatalf("redisOptions(%q): %v", tt.addr, err)
		}
		if opts.Addr != tt.want {
			t.Errorf("redisOptions(%q).Addr = %q, want %q", tt.addr, opts.Addr, tt.want)
		}
	}
}
