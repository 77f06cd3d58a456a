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
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"kathamritam-backend/internal/attendance"
	"kathamritam-backend/internal/notify"
	"kathamritam-backend/internal/platform/auth"
	"kathamritam-backend/internal/platform/db"
	"kathamritam-backend/internal/qrpass"
	"kathamritam-backend/internal/registration"
)

func main() {
	// .env → 環境変数（秘密情報は設定ファイルに置かない）
	_ = godotenv.Load()

	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}

	// セッション秘密鍵が無ければ起動しない
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("[FATAL] SESSION_SECRET must be set (env or .env)")
	}
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		jwtSecret = []byte(secret)
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	if err := db.EnsureSchema(conn); err != nil {
		log.Fatalf("[FATAL] schema setup failed: %v", err)
	}
	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	cal, err := attendance.NewCalendar(cfg.Event.Days)
	if err != nil {
		log.Fatalf("[FATAL] event calendar: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ブラウザセッション（登録フォームの退避と管理者フラグ）
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   mode == "release",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("kathamritam_session", store))

	r.LoadHTMLGlob("templates/*")
	r.Static("/static/qr_codes", cfg.Event.QRDir)

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// 依存の組み立て
	issuer := qrpass.NewIssuer(cfg.Event.BaseURL, cfg.Event.QRDir)
	mailer := notify.NewMailer(
		cfg.Mail.SMTPHost, cfg.Mail.SMTPPort,
		cfg.Mail.Username, os.Getenv("SMTP_PASSWORD"), cfg.Mail.From,
	)
	authSvc := auth.NewService(os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD"), jwtSecret)
	adminMW := auth.RequireAdmin(jwtSecret)

	auth.RegisterRoutes(r, authSvc)
	registration.RegisterRoutes(r, registration.NewService(conn, issuer, mailer, cfg.Pagination.PerPage), adminMW)
	attendance.RegisterRoutes(r, attendance.NewService(conn, cal, cfg.Pagination.PerPage), adminMW)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	go func() {
		var err error
		if mode == "release" {
			certFile := fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Cert)
			keyFile := fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Key)
			log.Printf("[INFO] listening on https://%s", srv.Addr)
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			log.Printf("[INFO] listening on http://%s", srv.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
