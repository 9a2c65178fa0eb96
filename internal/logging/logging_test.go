package logging

import (
	"context"
	"testing"
)

func TestNewGameID_LengthAndCharset(t *testing.T) {
	id := NewGameID()
	if len(id) != 8 {
		t.Fatalf("expected an 8-character id, got %q (len %d)", id, len(id))
	}
	for _, r := range id {
		isAlphaNum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlphaNum {
			t.Errorf("expected only alphanumeric characters, found %q in %q", r, id)
		}
	}
}

func TestNewGameID_IsNotConstant(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		seen[NewGameID()] = true
	}
	if len(seen) < 2 {
		t.Error("expected repeated calls to produce different ids")
	}
}

func TestGameIDFromContext_RoundTrip(t *testing.T) {
	ctx := WithGameID(context.Background(), "abc123")
	if got := GameIDFromContext(ctx); got != "abc123" {
		t.Errorf("GameIDFromContext = %q, want %q", got, "abc123")
	}
}

func TestGameIDFromContext_EmptyWhenAbsent(t *testing.T) {
	if got := GameIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty string for a context with no game id, got %q", got)
	}
}

func TestIsDevelopmentMode_RespectsEnvVars(t *testing.T) {
	t.Setenv("DEV", "")
	t.Setenv("DEV_MODE", "")
	t.Setenv("DEVELOPMENT", "")
	if isDevelopmentMode() {
		t.Error("expected development mode to be false with no env vars set")
	}

	t.Setenv("DEV", "true")
	if !isDevelopmentMode() {
		t.Error("expected DEV=true to enable development mode")
	}
}
