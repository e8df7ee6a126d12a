// Package main はサインイン/サインアップ画面サーバーのエントリーポイントです。
package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sufairath-nisar/assessment-aug5-2024/internal/account"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/auth"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/backend"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/config"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/logging"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/web"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.GinMode, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(logging.Middleware(logger), gin.Recovery())

	// セッションストアの設定（既定はブラウザを閉じると消えるクッキー）
	authManager := auth.NewManager(cfg)
	store := cookie.NewStore(cfg.SessionKey())
	store.Options(authManager.StoreOptions())
	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"X-CSRF-Token", // CSRF保護用ヘッダー
	}
	router.Use(cors.New(corsConfig))

	guard, closeGuard, err := setupGuard(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up submit guard: %v", err)
	}
	defer closeGuard()

	// リトライもタイムアウトもしない（リクエストのキャンセルで打ち切る）
	client := backend.NewClient(cfg.APIBaseURL, &http.Client{})
	service := account.NewService(client, guard, logger)

	if err := web.Register(router, web.Options{
		Accounts:  service,
		Sessions:  authManager,
		Logger:    logger,
		StaticDir: cfg.StaticDir,
	}); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// サーバーの起動
	addr := ":" + cfg.Port
	logger.Info("starting web server",
		zap.String("addr", addr),
		zap.String("mode", cfg.GinMode),
		zap.String("apiBaseURL", cfg.APIBaseURL),
	)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
