package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/sufairath-nisar/assessment-aug5-2024/internal/config"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/submit"
)

func TestSetupGuardInMemory(t *testing.T) {
	guard, closeGuard, err := setupGuard(&config.Config{SubmitGuardTTL: 60}, zap.NewNop())
	if err != nil {
		t.Fatalf("setupGuard: %v", err)
	}
	defer closeGuard()
	if _, ok := guard.(*submit.MemoryGuard); !ok {
		t.Fatalf("expected memory guard, got %T", guard)
	}
}

func TestSetupGuardRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	guard, closeGuard, err := setupGuard(&config.Config{
		SubmitGuardRedisURL: "redis://" + mr.Addr() + "/0",
		SubmitGuardTTL:      60,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("setupGuard: %v", err)
	}
	defer closeGuard()

	token := submit.NewToken()
	first, err := guard.Claim(context.Background(), token)
	if err != nil || !first {
		t.Fatalf("first claim: %v %v", first, err)
	}
	second, err := guard.Claim(context.Background(), token)
	if err != nil || second {
		t.Fatalf("second claim should be rejected: %v %v", second, err)
	}
}

func TestSetupGuardBadURL(t *testing.T) {
	if _, _, err := setupGuard(&config.Config{SubmitGuardRedisURL: "://bad"}, zap.NewNop()); err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}
