package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notehub/notehub/app/notes/internal/dao"
	"github.com/notehub/notehub/app/notes/internal/handler"
	"github.com/notehub/notehub/app/notes/internal/metrics"
	"github.com/notehub/notehub/app/notes/internal/service"
	"github.com/notehub/notehub/pkg/app"
	"github.com/notehub/notehub/pkg/database/postgres"
	"github.com/notehub/notehub/pkg/logger"
	"github.com/notehub/notehub/pkg/prometheus"
	"github.com/notehub/notehub/pkg/web"
	"github.com/notehub/notehub/pkg/web/middleware"
)

// Config Notes 服务配置
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// Web Server 配置
	Web web.Config `mapstructure:"web"`

	// PostgreSQL 配置
	Database postgres.Config `mapstructure:"database"`

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
	notesMetrics := metrics.New("notes")
	if err := notesMetrics.Register(promClient.Registry()); err != nil {
		l.Error("failed to register metrics", "error", err)
		return
	}

	// 5. 创建 PostgreSQL 客户端
	db, err := postgres.New(&cfg.Database)
	if err != nil {
		l.Error("failed to create postgres client", "error", err)
		return
	}
	defer db.Close()

	// 连接池状态纳入指标抓取
	if err := notesMetrics.RegisterPoolStats(promClient.Registry(), db.Stats); err != nil {
		l.Error("failed to register pool stats", "error", err)
		return
	}

	// 6. 创建 DAO 并初始化表结构
	noteDAO := dao.NewNoteDAO(db, l, notesMetrics)

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer schemaCancel()
	if err := noteDAO.EnsureSchema(schemaCtx); err != nil {
		l.Error("failed to ensure schema", "error", err)
		return
	}

	// 7. 创建领域服务
	noteService := service.NewNoteService(noteDAO, l)

	// 8. 创建 Web Server
	webServer := web.NewServer(&cfg.Web, l)
	webServer.Router().Use(middleware.CORS())
	webServer.Router().Use(middleware.Tracing("notes"))

	noteHandler := handler.NewNoteHandler(noteService, notesMetrics, l)
	noteHandler.Register(webServer.Router())

	// 9. 健康检查
	webServer.Router().GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "unavailable"})
			return
		}
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

	l.Info("starting notes server", "port", cfg.Web.Port)
	if err := webServer.Run(ctx); err != nil {
		l.Error("server exited with error", "error", err)
	}

	l.Info("notes server stopped")
}
