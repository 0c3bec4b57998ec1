package store

import (
	"strings"
	"testing"
	"time"
)

func TestJWTSessionRoundTrip(t *testing.T) {
	sessions := NewJWTSessionStore("test-secret", 0)

	token, err := sessions.NewSession("root")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	username, err := sessions.UsernameFromToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if username != "root" {
		t.Fatalf("expected subject root, got %q", username)
	}
}

func TestJWTSessionExpiryBoundary(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sessions := NewJWTSessionStore("test-secret", 0)
	sessions.now = func() time.Time { return issued }

	token, err := sessions.NewSession("root")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	sessions.now = func() time.Time { return issued.Add(23*time.Hour + 59*time.Minute) }
	if _, err := sessions.UsernameFromToken(token); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	sessions.now = func() time.Time { return issued.Add(24*time.Hour + time.Minute) }
	if _, err := sessions.UsernameFromToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestJWTSessionRejectsTamperedToken(t *testing.T) {
	sessions := NewJWTSessionStore("test-secret", 0)

	token, err := sessions.NewSession("root")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := sessions.UsernameFromToken(tampered); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestJWTSessionRejectsWrongSecret(t *testing.T) {
	issuing := NewJWTSessionStore("secret-one", 0)
	verifying := NewJWTSessionStore("secret-two", 0)

	token, err := issuing.NewSession("root")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := verifying.UsernameFromToken(token); err == nil {
		t.Fatalf("expected token signed with different secret to be rejected")
	}
}

func TestJWTSessionRejectsGarbage(t *testing.T) {
	sessions := NewJWTSessionStore("test-secret", 0)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := sessions.UsernameFromToken(token); err == nil {
			t.Fatalf("expected %q to be rejected", token)
		}
	}
}
