package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/chartoverlay/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("NullCache.Get = (%q, %v), want miss", data, hit)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := FrameKeyOpts{Format: "svg", Item: 3, Ratio: 2}

	key := k.FrameKey("abc", base)
	if !strings.HasPrefix(key, "frame:") || len(key) != len("frame:")+64 {
		t.Errorf("FrameKey = %q", key)
	}
	if key != k.FrameKey("abc", base) {
		t.Error("FrameKey should be deterministic")
	}

	tests := []struct {
		name   string
		digest string
		opts   FrameKeyOpts
	}{
		{"digest", "abd", base},
		{"format", "abc", FrameKeyOpts{Format: "png", Item: 3, Ratio: 2}},
		{"item", "abc", FrameKeyOpts{Format: "svg", Item: -1, Ratio: 2}},
		{"ratio", "abc", FrameKeyOpts{Format: "svg", Item: 3, Ratio: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k.FrameKey(tt.digest, tt.opts) == key {
				t.Errorf("changing %s should change the key", tt.name)
			}
		})
	}
}

func TestScopedKeyer(t *testing.T) {
	opts := FrameKeyOpts{Format: "png"}
	want := "v1.2.0:" + NewDefaultKeyer().FrameKey("d", opts)

	if got := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:").FrameKey("d", opts); got != want {
		t.Errorf("FrameKey = %q, want %q", got, want)
	}
	if got := NewScopedKeyer(nil, "v1.2.0:").FrameKey("d", opts); got != want {
		t.Errorf("nil inner: FrameKey = %q, want %q", got, want)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "frames"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("empty Get = (%v, %v), want miss", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Fatalf("Get = (%q, %v, %v)", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
}

func TestFileCacheExpiredAndCorrupt(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, err := c.Get(ctx, "old"); err != nil || hit {
		t.Errorf("expired Get = (%v, %v), want miss", hit, err)
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Errorf("expired entry should be removed, stat err = %v", err)
	}

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); err != nil || hit {
		t.Errorf("corrupt Get = (%v, %v), want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	produce := func() ([]byte, error) {
		calls++
		return []byte("frame"), nil
	}
	for i, wantHit := range []bool{false, true} {
		data, hit, err := Fetch(ctx, c, "k", 0, produce)
		if err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
		if hit != wantHit || string(data) != "frame" {
			t.Errorf("Fetch %d = (%q, %v), want (frame, %v)", i, data, hit, wantHit)
		}
	}
	if calls != 1 {
		t.Errorf("produce called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, _, err := Fetch(ctx, NewNullCache(), "k", 0, func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("Fetch error = %v, want boom", err)
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
	backend            string
}

func (h *countingHooks) OnCacheHit(_ context.Context, backend string) {
	h.hits++
	h.backend = backend
}

func (h *countingHooks) OnCacheMiss(context.Context, string) { h.misses++ }

func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestInstrument(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Instrument(fc, "file")
	if Instrument(c, "other") != c {
		t.Error("Instrument should not wrap twice")
	}

	if _, _, err := Fetch(ctx, c, "k", 0, func() ([]byte, error) { return []byte("x"), nil }); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Get(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if hooks.misses != 1 || hooks.sets != 1 || hooks.hits != 1 {
		t.Errorf("hooks = %+v, want 1 miss, 1 set, 1 hit", hooks)
	}
	if hooks.backend != "file" {
		t.Errorf("backend = %q, want file", hooks.backend)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://localhost:6379"); err == nil {
		t.Error("NewRedisCache should reject a non-redis URL")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	fast := Backoff{Attempts: 3, Delay: time.Millisecond}
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"non-retryable", 5, permanent, 1, permanent},
		{"recovers", 1, Retryable(ErrUnavailable), 2, nil},
		{"exhausted", 5, Retryable(ErrUnavailable), 3, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, fast, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, DefaultBackoff, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewMongoCacheBadURI(t *testing.T) {
	if _, err := NewMongoCache(context.Background(), "redis://localhost:6379"); err == nil {
		t.Error("NewMongoCache should reject a non-mongodb URI")
	}
}
