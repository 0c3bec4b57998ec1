package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"esteria/internal/app"
	"esteria/internal/ratelimit"
	"esteria/pkg/store"
)

func TestLoginRateLimited(t *testing.T) {
	redis := miniredis.RunT(t)
	limiter, err := ratelimit.NewRedisFixedWindowLimiter(redis.Addr(), "", "", 3, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	a, err := app.New(app.Config{
		Store:          store.NewMemoryStore(),
		Sessions:       store.NewJWTSessionStore("test-secret", 0),
		BootstrapLogin: true,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	h := New(Config{App: a, LoginLimiter: limiter}).Router()

	body := map[string]string{"username": "root", "password": "wrong"}
	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}

	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header on 429")
	}

	// Correct credentials are throttled the same way inside the window.
	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "root", "password": "root"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for same client, got %d", rec.Code)
	}
}
