package main

import (
	"go.uber.org/zap"

	redis "github.com/redis/go-redis/v9"

	"github.com/sufairath-nisar/assessment-aug5-2024/internal/config"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/submit"
)

// setupGuard は二重送信ガードを作成します。
// SUBMIT_GUARD_REDIS_URL が空ならプロセス内メモリを使います。
func setupGuard(cfg *config.Config, logger *zap.Logger) (submit.Guard, func(), error) {
	if cfg.SubmitGuardRedisURL == "" {
		logger.Info("submit guard: in-memory", zap.Duration("ttl", cfg.GuardTTL()))
		return submit.NewMemoryGuard(cfg.GuardTTL()), func() {}, nil
	}

	opt, err := redis.ParseURL(cfg.SubmitGuardRedisURL)
	if err != nil {
		return nil, nil, err
	}
	guard := submit.NewRedisGuard(redis.NewClient(opt), cfg.GuardTTL())
	logger.Info("submit guard: redis", zap.String("addr", opt.Addr), zap.Duration("ttl", cfg.GuardTTL()))
	return guard, func() {
		if err := guard.Close(); err != nil {
			logger.Warn("failed to close submit guard", zap.Error(err))
		}
	}, nil
}
