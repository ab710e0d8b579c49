package httputil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/folio/pkg/cache"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewCache(backend, ttl)
}

func TestCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, time.Hour)

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"simple", "key1", map[string]string{"foo": "bar"}},
		{"string", "key2", "test"},
		{"nested", "key3", map[string]any{"a": map[string]any{"b": float64(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(ctx, tt.key, tt.value); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}

			var result any
			ok, err := c.Get(ctx, tt.key, &result)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if !ok {
				t.Fatal("Get() returned false for existing key")
			}
		})
	}
}

func TestCache_Miss(t *testing.T) {
	c := newTestCache(t, time.Hour)
	var result string
	ok, err := c.Get(context.Background(), "missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 10*time.Millisecond)

	if err := c.Set(ctx, "key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var res string
	ok, err := c.Get(ctx, "key", &res)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}

	time.Sleep(20 * time.Millisecond)

	ok, err = c.Get(ctx, "key", &res)
	if err != nil || ok {
		t.Errorf("Get() after expiry = %v, %v; want false, nil", ok, err)
	}
}

func TestCache_NilBackend(t *testing.T) {
	ctx := context.Background()
	c := NewCache(nil, time.Hour)

	if err := c.Set(ctx, "key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	var res string
	if ok, _ := c.Get(ctx, "key", &res); ok {
		t.Error("nil backend should never hit")
	}
}

func TestCache_DecodeError(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, time.Hour)

	_ = c.Set(ctx, "key", "a string")
	var n int
	if _, err := c.Get(ctx, "key", &n); err == nil {
		t.Error("Get() into wrong type should fail")
	}
}

func TestCache_Namespace(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, time.Hour)

	t.Run("basicNamespacing", func(t *testing.T) {
		repos := c.Namespace("repos:")
		readme := c.Namespace("readme:")

		if err := repos.Set(ctx, "octocat", "repos-data"); err != nil {
			t.Fatalf("repos.Set() failed: %v", err)
		}
		if err := readme.Set(ctx, "octocat", "readme-data"); err != nil {
			t.Fatalf("readme.Set() failed: %v", err)
		}

		var reposVal, readmeVal string
		if ok, err := repos.Get(ctx, "octocat", &reposVal); !ok || err != nil {
			t.Fatalf("repos.Get() = %v, %v; want true, nil", ok, err)
		}
		if ok, err := readme.Get(ctx, "octocat", &readmeVal); !ok || err != nil {
			t.Fatalf("readme.Get() = %v, %v; want true, nil", ok, err)
		}
		if reposVal != "repos-data" || readmeVal != "readme-data" {
			t.Errorf("namespace isolation violated: %q, %q", reposVal, readmeVal)
		}
	})

	t.Run("chainedNamespacing", func(t *testing.T) {
		gh := c.Namespace("github:")
		langs := gh.Namespace("languages:")

		if err := langs.Set(ctx, "folio", "value"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}

		var result string
		ok, err := langs.Get(ctx, "folio", &result)
		if !ok || err != nil || result != "value" {
			t.Errorf("Get() = %v, %v, %q; want true, nil, %q", ok, err, result, "value")
		}

		if found, _ := gh.Get(ctx, "folio", &result); found {
			t.Error("value accessible without full namespace chain")
		}
	})

	t.Run("preservesTTL", func(t *testing.T) {
		if ns := c.Namespace("test:"); ns.TTL() != c.TTL() {
			t.Errorf("TTL() = %v, want %v", ns.TTL(), c.TTL())
		}
	})
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	transient := errors.New("transient")
	permanent := errors.New("permanent")

	t.Run("success first try", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			return nil
		})
		if err != nil || calls != 1 {
			t.Errorf("Retry() = %v after %d calls", err, calls)
		}
	})

	t.Run("non-retryable stops", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			return permanent
		})
		if !errors.Is(err, permanent) || calls != 1 {
			t.Errorf("Retry() = %v after %d calls", err, calls)
		}
	})

	t.Run("retryable retries", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return &RetryableError{Err: transient}
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("Retry() = %v after %d calls", err, calls)
		}
	})

	t.Run("exhausted returns last error", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 2, time.Millisecond, func() error {
			calls++
			return &RetryableError{Err: transient}
		})
		if !errors.Is(err, transient) || calls != 2 {
			t.Errorf("Retry() = %v after %d calls", err, calls)
		}
	})

	t.Run("honors After", func(t *testing.T) {
		start := time.Now()
		_ = Retry(ctx, 2, time.Hour, func() error {
			return &RetryableError{Err: transient, After: time.Millisecond}
		})
		if time.Since(start) > time.Second {
			t.Error("Retry() should wait After instead of the backoff delay")
		}
	})

	t.Run("context cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := Retry(cctx, 3, time.Hour, func() error {
			return &RetryableError{Err: transient}
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Retry() = %v, want context.Canceled", err)
		}
	})
}
