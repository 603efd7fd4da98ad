package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fintalk/fintalk/internal/cache"
	"github.com/fintalk/fintalk/internal/config"
	"github.com/fintalk/fintalk/internal/db"
	"github.com/fintalk/fintalk/internal/handler"
	"github.com/fintalk/fintalk/internal/logging"
	"github.com/fintalk/fintalk/internal/router"
	"github.com/fintalk/fintalk/internal/service"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	if cfg.AdminUserName != "" && cfg.AdminPassword != "" {
		if err := db.EnsureAdmin(cfg.AdminUserName, cfg.AdminPassword); err != nil {
			logger.Fatal("failed to ensure admin account", zap.Error(err))
		}
	}

	store := cache.New(cfg)
	api := handler.NewAPI(db.DB, logger, store, cfg.UploadDir, cfg.UploadURLPath)

	// 发布通知:有配置 SMTP 时通过邮件推送给关注者
	if mailer := service.NewSMTPMailer(cfg); mailer != nil {
		notifier := service.NewNotificationService(db.DB, logger, mailer, cfg.SiteBaseURL)
		api.SetPublishNotifier(notifier)
	}

	// 后台扫描到期的定时发布文章
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go api.Posts().RunPublishSweeper(ctx, cfg.SweepInterval)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg)
	logger.Info("server starting", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("failed to run server", zap.Error(err))
	}
}
