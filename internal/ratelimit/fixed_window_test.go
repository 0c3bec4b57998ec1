package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) *FixedWindowLimiter {
	t.Helper()
	srv := miniredis.RunT(t)
	l, err := NewRedisFixedWindowLimiter(srv.Addr(), "", "test:ratelimit", limit, window)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	return l
}

func TestAllowUpToLimit(t *testing.T) {
	l := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("key") {
		t.Fatalf("request over limit should be denied")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := newTestLimiter(t, 1, time.Minute)

	if !l.Allow("a") {
		t.Fatalf("first request for a should be allowed")
	}
	if l.Allow("a") {
		t.Fatalf("second request for a should be denied")
	}
	if !l.Allow("b") {
		t.Fatalf("first request for b should be allowed")
	}
}

func TestEmptyKeyStillCounted(t *testing.T) {
	l := newTestLimiter(t, 1, time.Minute)

	if !l.Allow("") {
		t.Fatalf("first request should be allowed")
	}
	if l.Allow("  ") {
		t.Fatalf("blank keys share the fallback bucket and should be denied")
	}
}

func TestRedisDownFailsClosed(t *testing.T) {
	srv := miniredis.RunT(t)
	l, err := NewRedisFixedWindowLimiter(srv.Addr(), "", "test:ratelimit", 5, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	srv.Close()

	if l.Allow("key") {
		t.Fatalf("expected deny when redis is unreachable")
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	if _, err := NewRedisFixedWindowLimiter("localhost:6379", "", "", 0, time.Minute); err == nil {
		t.Fatalf("expected error for zero limit")
	}
	if _, err := NewRedisFixedWindowLimiter("localhost:6379", "", "", 5, 0); err == nil {
		t.Fatalf("expected error for zero window")
	}
	if _, err := NewRedisFixedWindowLimiter("", "", "", 5, time.Minute); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
