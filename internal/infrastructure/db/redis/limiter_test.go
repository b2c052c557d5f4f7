package redis

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestKey_NormalisesEmail(t *testing.T) {
	if got, want := key("  Carol@Example.COM "), "login_failures:carol@example.com"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}

func TestLoginLimiter_Window(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	l := NewLoginLimiter(client, 2, time.Minute)
	email := "limiter-test@example.com"
	_ = l.Reset(ctx, email)

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, email)
		if err != nil || !ok {
			t.Fatalf("attempt %d should be allowed: ok=%v err=%v", i, ok, err)
		}
		if err := l.RecordFailure(ctx, email); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	if ok, _ := l.Allow(ctx, email); ok {
		t.Fatalf("third attempt should be throttled")
	}
	if ttl := client.TTL(ctx, key(email)).Val(); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	if err := l.Reset(ctx, email); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ok, _ := l.Allow(ctx, email); !ok {
		t.Fatalf("reset should clear the window")
	}
}
