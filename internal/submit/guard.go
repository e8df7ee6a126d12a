// Package submit はフォームの二重送信を防ぐためのトークン管理を提供します。
package submit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "submit:"

// DuplicateMessage は同じフォームが再送信されたときの表示文言です。
const DuplicateMessage = "This form was already submitted. Please wait."

// Guard はフォームトークンを1回だけ使用済みにします。
type Guard interface {
	// Claim はトークンを使用済みにします。既に使用済みなら false を返します。
	Claim(ctx context.Context, token string) (bool, error)
}

// NewToken は描画するフォームに埋め込むトークンを発行します。
func NewToken() string {
	return uuid.NewString()
}

// ValidToken はトークンが NewToken の形式かを返します。
func ValidToken(token string) bool {
	_, err := uuid.Parse(token)
	return err == nil
}

// MemoryGuard はプロセス内のマップで使用済みトークンを保持します。
type MemoryGuard struct {
	ttl  time.Duration
	now  func() time.Time
	lock sync.Mutex
	used map[string]time.Time
}

// NewMemoryGuard は MemoryGuard を作成します。
func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{
		ttl:  ttl,
		now:  time.Now,
		used: make(map[string]time.Time),
	}
}

// Claim はトークンを使用済みにします。
func (g *MemoryGuard) Claim(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, fmt.Errorf("token is required")
	}
	g.lock.Lock()
	defer g.lock.Unlock()

	now := g.now()
	// 期限切れのトークンはここでまとめて捨てる
	for t, expires := range g.used {
		if now.After(expires) {
			delete(g.used, t)
		}
	}
	if _, ok := g.used[token]; ok {
		return false, nil
	}
	g.used[token] = now.Add(g.ttl)
	return true, nil
}

// RedisGuard は Redis の SETNX で使用済みトークンを保持します（複数プロセス構成向け）。
type RedisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisGuard は RedisGuard を作成します。
func NewRedisGuard(rdb *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{
		rdb: rdb,
		ttl: ttl,
	}
}

// Claim はトークンを使用済みにします。
func (g *RedisGuard) Claim(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, fmt.Errorf("token is required")
	}
	ok, err := g.rdb.SetNX(ctx, tokenKey(token), time.Now().UTC().Unix(), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim form token: %w", err)
	}
	return ok, nil
}

// Close は Redis 接続を閉じます。
func (g *RedisGuard) Close() error {
	return g.rdb.Close()
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}
