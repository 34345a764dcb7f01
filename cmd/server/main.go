package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shorturl-analytics/internal/analytics"
	"shorturl-analytics/internal/click"
	"shorturl-analytics/internal/config"
	"shorturl-analytics/internal/geo"
	"shorturl-analytics/internal/handler"
	"shorturl-analytics/internal/middleware"
	"shorturl-analytics/internal/quota"
	"shorturl-analytics/internal/redirect"
	"shorturl-analytics/internal/repository"
	"shorturl-analytics/internal/service"
	"shorturl-analytics/internal/shortcode"
	"shorturl-analytics/pkg/database"
	auth "shorturl-analytics/pkg/jwt"
	"shorturl-analytics/pkg/logger"
	"shorturl-analytics/pkg/redis"

	_ "shorturl-analytics/docs"

	"github.com/gin-gonic/gin"
	redisClient "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title 短链接与点击分析服务 API
// @version 1.0
// @description 短链接创建、跳转与点击统计。
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	configPath := os.Getenv("SHORTURL_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "配置加载失败:", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	defer func() {
		if err := logger.Logger.Sync(); err != nil {
			fmt.Println("日志同步失败:", err)
		}
	}()
	sugaredLogger := zap.S()

	db, err := database.Open(database.Options{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		Charset:  cfg.Database.Charset,
		SSLMode:  cfg.Database.SSLMode,
		Path:     cfg.Database.Path,
	})
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	sugaredLogger.Infof("✅ 数据库连接成功 (%s)", cfg.Database.Driver)

	var rdb *redisClient.Client
	if cfg.Cache.Host != "" {
		rdb, err = redis.NewRedisClient(&redis.Options{
			Host: cfg.Cache.Host, Port: cfg.Cache.Port, Password: cfg.Cache.Password, DB: cfg.Cache.DB,
		})
		if err != nil {
			// 配额计数放在 Redis 时无法降级
			if cfg.GuestQuota.Store == "redis" {
				sugaredLogger.Fatalf("缓存连接失败: %v", err)
			}
			sugaredLogger.Warnf("缓存连接失败，跳转将直接查库: %v", err)
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
				}
			}()
			sugaredLogger.Info("✅ 缓存连接成功")
		}
	}

	linkRepo := repository.NewLinkRepository(db)
	clickRepo := repository.NewClickRepository(db)

	var quotaStore quota.Store
	if cfg.GuestQuota.Store == "redis" {
		quotaStore = quota.NewRedisStore(rdb, cfg.GuestQuota.Window)
	} else {
		quotaStore = repository.NewGuestUsageRepository(db, cfg.GuestQuota.Window)
	}
	limiter := quota.NewLimiter(quotaStore, cfg.GuestQuota.Limit, sugaredLogger)
	sugaredLogger.Infof("✅ 匿名配额: 每个 IP %d 个 (存储: %s)", limiter.Limit(), cfg.GuestQuota.Store)

	var locator geo.Locator = geo.Nop{}
	if cfg.Geo.Enabled {
		locator = geo.NewIPAPIClient(cfg.Geo.Endpoint, cfg.Geo.Timeout, sugaredLogger)
	}
	recorder := click.NewRecorder(clickRepo, locator, click.Options{
		GeoTimeout:    cfg.Geo.Timeout,
		RecordTimeout: cfg.Click.RecordTimeout,
	}, sugaredLogger)

	resolver := redirect.NewResolver(linkRepo, recorder, rdb,
		time.Duration(cfg.Cache.LinkTTL)*time.Second, cfg.Click.Async, sugaredLogger)

	generator := shortcode.NewGenerator(cfg.Shortener.SlugLength, cfg.Shortener.MaxAttempts, sugaredLogger)
	shortener := service.NewShortener(linkRepo, limiter, generator, resolver, cfg.Shortener.BaseURL, sugaredLogger)
	analyticsService := analytics.NewService(linkRepo, clickRepo)

	tokenManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.ExpirationHours)
	sugaredLogger.Info("✅ 认证管理器初始化成功")

	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handler.RegisterValidators(); err != nil {
		sugaredLogger.Fatalf("注册校验规则失败: %v", err)
	}

	router := gin.New()
	// 匿名配额按客户端 IP 计数，只信任配置中的代理
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		sugaredLogger.Fatalf("代理配置无效: %v", err)
	}
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.GinZapLogger(logger.Logger))
	router.Use(middleware.RateLimit(&cfg.RateLimit))

	handler.RegisterRoutes(router, handler.Handlers{
		Link:      handler.NewLinkHandler(db, rdb, shortener, resolver, sugaredLogger),
		Analytics: handler.NewAnalyticsHandler(analyticsService, sugaredLogger),
		Auth:      handler.NewAuthHandler(db, tokenManager, sugaredLogger),
	}, middleware.AuthMiddleware(tokenManager), middleware.OptionalAuth(tokenManager))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		sugaredLogger.Infof("🚀 服务启动成功, 访问 http://localhost:%d", cfg.Server.Port)
		sugaredLogger.Infof("📚 Swagger 文档地址: http://localhost:%d/swagger/index.html", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugaredLogger.Fatalf("服务启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugaredLogger.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		sugaredLogger.Errorf("服务关闭失败: %v", err)
	}
	// 等待后台点击记录写完
	recorder.Wait()
	sugaredLogger.Info("服务已退出")
}
