package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notehub/notehub/app/gateway/internal/diagnostic"
	"github.com/notehub/notehub/app/gateway/internal/handler"
	"github.com/notehub/notehub/app/gateway/internal/metrics"
	"github.com/notehub/notehub/pkg/app"
	"github.com/notehub/notehub/pkg/logger"
	"github.com/notehub/notehub/pkg/prometheus"
	"github.com/notehub/notehub/pkg/registry/etcd"
	"github.com/notehub/notehub/pkg/web"
	"github.com/notehub/notehub/pkg/web/middleware"
)

// Config Gateway 服务配置
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// Web Server 配置
	Web web.Config `mapstructure:"web"`

	// etcd 配置（服务发现）
	Etcd etcd.Config `mapstructure:"etcd"`

	// Prometheus 配置
	Prometheus prometheus.Config `mapstructure:"prometheus"`
}

func main() {
	var cfg Config

	// 1. 加载配置
	if err := app.LoadConfig(&cfg); err != nil {
		panic(err)
	}

	// 2. 初始化 Logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		panic(err)
	}
	defer l.Sync()

	// 3. 创建 Prometheus 客户端
	promClient, err := prometheus.New(&cfg.Prometheus)
	if err != nil {
		l.Error("failed to create prometheus client", "error", err)
		return
	}
	defer promClient.Close()

	// 4. 创建指标收集器
	gatewayMetrics := metrics.New("gateway")
	if err := gatewayMetrics.Register(promClient.Registry()); err != nil {
		l.Error("failed to register metrics", "error", err)
		return
	}

	// 5. 创建 etcd 服务发现器
	resolver, err := etcd.NewResolver(&cfg.Etcd)
	if err != nil {
		l.Error("failed to create etcd resolver", "error", err)
		return
	}
	defer resolver.Close()

	// 6. 创建聚合器
	aggregator := diagnostic.NewAggregator(resolver, l)

	// 7. 创建 Web Server
	webServer := web.NewServer(&cfg.Web, l)
	webServer.Router().Use(middleware.CORS())
	webServer.Router().Use(middleware.Tracing("gateway"))

	// 对外入口启用限流
	rateLimiter := middleware.NewRateLimiter(l, &middleware.RateLimitConfig{
		RequestsPerSecond: 1000,
		Burst:             2000,
		PerIP:             true,
		SkipPaths:         []string{"/health"},
		LimiterTTL:        10 * time.Minute,
		CleanupInterval:   time.Minute,
	})
	defer rateLimiter.Close()
	webServer.Router().Use(middleware.RateLimit(rateLimiter))

	// 8. 注册 Handler
	diagnosticHandler := handler.NewDiagnosticHandler(aggregator, gatewayMetrics, l)
	diagnosticHandler.Register(webServer.Router())

	// 9. 健康检查
	webServer.Router().GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 10. 运行服务
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		l.Info("received shutdown signal")
		cancel()
	}()

	l.Info("starting gateway server", "port", cfg.Web.Port)
	if err := webServer.Run(ctx); err != nil {
		l.Error("server exited with error", "error", err)
	}

	l.Info("gateway server stopped")
}
