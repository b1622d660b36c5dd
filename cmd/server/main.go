// Package main runs the Fahrschule website backend with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fahrschule-lenz/backend/config"
	"github.com/fahrschule-lenz/backend/internal/consent"
	"github.com/fahrschule-lenz/backend/internal/emaillog"
	"github.com/fahrschule-lenz/backend/internal/mailer"
	"github.com/fahrschule-lenz/backend/internal/middleware"
	"github.com/fahrschule-lenz/backend/internal/registrations"
	"github.com/fahrschule-lenz/backend/internal/siteconfig"
	"github.com/fahrschule-lenz/backend/pkg/database"
	"github.com/fahrschule-lenz/backend/pkg/redis"
	"github.com/fahrschule-lenz/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()

	// Delivery audit trail is optional; without a database the send path
	// behaves identically but nothing is recorded.
	var emailLogRepo *emaillog.Repository
	if cfg.Database.Enabled() {
		pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
		emailLogRepo = emaillog.NewRepository(pool)
	} else {
		logger.Info("no database configured, email audit trail disabled")
	}

	// Consent records live in Redis when available, otherwise in a local file.
	var consentStore consent.Store
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		consentStore = consent.NewRedisStore(rdb.Client, "", consent.RecordTTL)
	} else {
		consentStore = consent.NewFileStore(cfg.Consent.FilePath)
		logger.Info("no redis configured, consent records stored in file", zap.String("path", cfg.Consent.FilePath))
	}
	consentHandler := consent.NewHandler(consentStore, logger)

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP, logger)
	var audit registrations.Recorder
	if emailLogRepo != nil {
		audit = emailLogRepo
	}
	registrationHandler := registrations.NewHandler(smtpMailer, cfg.Mail, audit, logger)
	emailLogHandler := emaillog.NewHandler(emailLogRepo)

	docs, err := siteconfig.Load(cfg.Site.ConfigPath, cfg.Site.ImageManifestPath, logger)
	if err != nil {
		logger.Fatal("site config", zap.Error(err))
	}
	siteHandler := siteconfig.NewHandler(docs)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Registration notifications; the handler itself rejects non-POST with
	// 405 and a fixed body the frontend matches on. OPTIONS never reaches
	// it: the CORS middleware answers preflight with 204.
	router.Any("/api/send-emails", registrationHandler.SendEmails)

	// Consent record (per-visitor cookie)
	router.GET("/api/consent", consentHandler.Get)
	router.PUT("/api/consent", consentHandler.Update)
	router.DELETE("/api/consent", consentHandler.Revoke)

	// Site config documents
	router.GET("/api/config", siteHandler.GetConfig)
	router.GET("/api/images", siteHandler.GetImages)

	// Admin (static API key)
	admin := router.Group("/api/admin")
	admin.Use(middleware.RequireAPIKey(cfg.Admin.APIKey))
	{
		admin.GET("/emails", emailLogHandler.List)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
