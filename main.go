package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"oasis-hr-gateway/internal/leave"
	"oasis-hr-gateway/internal/platform/auth"
	"oasis-hr-gateway/internal/platform/db"
	"oasis-hr-gateway/internal/platform/face"
	"oasis-hr-gateway/internal/platform/geo"
	"oasis-hr-gateway/internal/platform/upstream"
	"oasis-hr-gateway/internal/profile"
	"oasis-hr-gateway/internal/punch"
)

func main() {
	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	// 動作モード取得
	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "oasis-hr-gateway").
		Str("version", cfg.Version).
		Logger()
	if mode == "dev" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	logger.Info().Str("dbname", cfg.DB.DBName).Msg("connected to DB")

	// 外部サービスのクライアント
	hr := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout(), logger)
	geocoder := geo.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey, cfg.Geocoder.Timeout(), logger)
	detector := face.NewClient(cfg.Face.BaseURL, cfg.Face.Timeout(), logger)

	authSvc := auth.NewService(conn, hr, []byte(cfg.JWT.Secret), cfg.JWT.TTL())
	punchSvc := punch.NewService(hr, detector, geocoder, hr, punch.NewStore(conn), cfg.Session.TTL(), logger)
	leaveSvc := leave.NewService(hr, hr, logger)
	profileSvc := profile.NewService(hr)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// API ドキュメント
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// /api/v1
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, authSvc)
	auth.RegisterOperatorRoutes(api, authSvc)

	// モバイルアプリ用（要トークン）
	mobile := api.Group("", auth.RequireAuth([]byte(cfg.JWT.Secret)))
	punch.RegisterRoutes(mobile, punchSvc)
	leave.RegisterRoutes(mobile, leaveSvc)
	profile.RegisterRoutes(mobile, profileSvc)

	// 管理用（運用者ロール）
	admin := api.Group("/admin", auth.RequireAuth([]byte(cfg.JWT.Secret)), auth.RequireRole("admin", "viewer"))
	punch.RegisterAdminRoutes(admin, punchSvc)

	// 期限切れ打刻セッションの回収
	sweepDone := make(chan struct{})
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				punchSvc.Sweep()
			case <-sweepDone:
				return
			}
		}
	}()

	// TLS起動（:8443）
	srv := &http.Server{
		Addr:    ":8443",
		Handler: r,
	}

	var certFile, keyFile string

	// TLS設定
	if mode == "dev" {
		//開発用
		certFile = fmt.Sprintf("config/tls/dev/%s", cfg.Certificate.Cert)
		keyFile = fmt.Sprintf("config/tls/dev/%s", cfg.Certificate.Key)
	} else {
		//本番用
		certFile = fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Cert)
		keyFile = fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Key)
	}

	go func() {
		logger.Info().Msg("listening on https://0.0.0.0:8443")
		if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info().Msg("shutting down...")
	close(sweepDone)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
