package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Disastrous/internal/broadcast"
	handlers "Disastrous/internal/handler"
	"Disastrous/internal/models"
	"Disastrous/pkg/config"
	"Disastrous/pkg/llm"
	"Disastrous/pkg/logger"
	"Disastrous/pkg/metrics"
	"Disastrous/pkg/sse"
	"Disastrous/pkg/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GlobalConfig

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := util.OpenDatabase(&gorm.Config{}, cfg.DBDriver, cfg.DSN)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.User{}, &models.SOSRequest{}); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}
	if cfg.SeedAccounts {
		if err := models.SeedDefaultAccounts(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal("seed accounts", zap.Error(err))
		}
	}

	hub := sse.NewHub(sse.DefaultHeartbeat)
	eventLog := broadcast.NewEventLog(broadcast.DefaultLogCapacity)
	dispatcher := broadcast.NewDispatcher(db, eventLog, hub, logger.L())

	var assistant llm.LLM
	if cfg.LLMApiKey != "" && cfg.LLMApiKey != "your-a4f-api-key" {
		assistant = llm.NewOpenAIHandler(cfg.LLMApiKey, cfg.LLMBaseURL, cfg.LLMModel, logrus.New())
		logger.Info("assistant upstream configured", zap.String("base_url", cfg.LLMBaseURL))
	} else {
		logger.Warn("assistant upstream not configured")
	}

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(metrics.Middleware())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	engine.Use(sessions.Sessions("disastrous_session", store))

	handlers.NewHandlers(db, dispatcher, hub, assistant).Register(engine)

	// 周期性输出广播面板概况
	cr := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err = cr.AddFunc("@every 10m", func() {
		logger.Info("broadcast stats",
			zap.Int("event_log", eventLog.Len()),
			zap.Int("sse_clients", hub.ClientCount()),
		)
	})
	if err != nil {
		logger.Warn("schedule stats job", zap.Error(err))
	}
	cr.Start()
	defer cr.Stop()

	srv := &http.Server{Addr: cfg.Addr, Handler: engine}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
