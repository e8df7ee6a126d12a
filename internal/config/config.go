// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // Webサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// セッション設定
	SessionSecret    string // セッションクッキー署名用の秘密鍵
	KeepSignedInDays int    // 「ログインしたままにする」選択時のクッキー有効日数

	// CORS設定
	CORSAllowedOrigins string // /api/* の許可オリジン（カンマ区切り）

	// 外部API設定
	APIBaseURL string // クライアント認証APIのベースURL

	// 静的ファイル
	StaticDir string // /images として配信するディレクトリ

	// 二重送信ガード
	SubmitGuardRedisURL string // 空の場合はメモリ上で管理する
	SubmitGuardTTL      int    // フォームトークンの保持秒数

	// ログ設定
	LogLevel string // zap のログレベル
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	ginMode := getEnv("GIN_MODE", "debug")
	defaultLevel := "info"
	if ginMode == "debug" {
		defaultLevel = "debug"
	}

	config := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: ginMode,

		SessionSecret:    getEnv("SESSION_SECRET", ""),
		KeepSignedInDays: getEnvAsInt("KEEP_SIGNED_IN_DAYS", 30),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),

		StaticDir: getEnv("STATIC_DIR", "public"),

		SubmitGuardRedisURL: getEnv("SUBMIT_GUARD_REDIS_URL", ""),
		SubmitGuardTTL:      getEnvAsInt("SUBMIT_GUARD_TTL_SECONDS", 120),

		LogLevel: getEnv("LOG_LEVEL", defaultLevel),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must start with http:// or https://: %q", c.APIBaseURL)
	}
	if c.KeepSignedInDays <= 0 {
		return fmt.Errorf("KEEP_SIGNED_IN_DAYS must be positive")
	}

	// ローカル開発ではセッション鍵は任意
	if c.GinMode == "release" {
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required in release mode")
		}
	}

	return nil
}

// SessionKey はクッキー署名に使う鍵を返します。
// 未設定の開発環境では固定の鍵を使います。
func (c *Config) SessionKey() []byte {
	if c.SessionSecret == "" {
		return []byte("dev-only-session-secret")
	}
	return []byte(c.SessionSecret)
}

// KeepSignedInMaxAge はクッキーの MaxAge に利用する秒数を返します。
func (c *Config) KeepSignedInMaxAge() int {
	return int((time.Duration(c.KeepSignedInDays) * 24 * time.Hour).Seconds())
}

// GuardTTL は二重送信ガードの保持期間を返します。
func (c *Config) GuardTTL() time.Duration {
	if c.SubmitGuardTTL <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.SubmitGuardTTL) * time.Second
}

// AllowedOrigins は CORS 許可オリジンを配列で返します。
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
