package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notehub/notehub/app/gateway/internal/diagnostic"
	"github.com/notehub/notehub/app/gateway/internal/metrics"
	"github.com/notehub/notehub/pkg/logger"
	"github.com/notehub/notehub/pkg/web"
	weberrors "github.com/notehub/notehub/pkg/web/errors"
)

// DiagnosticHandler 注册中心诊断处理器
type DiagnosticHandler struct {
	aggregator *diagnostic.Aggregator
	metrics    *metrics.GatewayMetrics
	logger     logger.Logger
}

// NewDiagnosticHandler 创建诊断处理器
func NewDiagnosticHandler(a *diagnostic.Aggregator, m *metrics.GatewayMetrics, l logger.Logger) *DiagnosticHandler {
	return &DiagnosticHandler{
		aggregator: a,
		metrics:    m,
		logger:     l.Named("handler.diagnostic"),
	}
}

// Register 注册路由
func (h *DiagnosticHandler) Register(r *gin.Engine) {
	api := r.Group("/diagnostic")
	{
		api.GET("/services", h.ListServices)
		api.GET("/services/:serviceName", h.DescribeService)
	}
}

// ListServices 返回全部已注册服务及其实例
func (h *DiagnosticHandler) ListServices(c *gin.Context) {
	start := time.Now()

	snapshot, err := h.aggregator.ListAllServices(c.Request.Context())
	duration := time.Since(start).Seconds()
	if err != nil {
		h.metrics.RecordRegistryQuery("list", false, duration)
		h.metrics.RecordRequest("GET", "/diagnostic/services", "error", duration)
		h.logger.Error("failed to list services", "error", err)
		web.Error(c, http.StatusBadGateway, weberrors.CodeExternalError, "registry unavailable")
		return
	}

	h.metrics.RecordRegistryQuery("list", true, duration)
	h.metrics.RecordRequest("GET", "/diagnostic/services", "ok", duration)
	web.Success(c, snapshot)
}

// DescribeService 描述单个服务
// 未知服务同样返回 200，载荷中携带错误说明与可用服务列表
func (h *DiagnosticHandler) DescribeService(c *gin.Context) {
	start := time.Now()
	serviceName := c.Param("serviceName")

	desc, err := h.aggregator.DescribeService(c.Request.Context(), serviceName)
	duration := time.Since(start).Seconds()
	if err != nil {
		h.metrics.RecordRegistryQuery("describe", false, duration)
		h.metrics.RecordRequest("GET", "/diagnostic/services/:serviceName", "error", duration)
		h.logger.Error("failed to describe service",
			"service", serviceName,
			"error", err,
		)
		web.Error(c, http.StatusBadGateway, weberrors.CodeExternalError, "registry unavailable")
		return
	}

	h.metrics.RecordRegistryQuery("describe", true, duration)
	h.metrics.RecordRequest("GET", "/diagnostic/services/:serviceName", "ok", duration)
	web.Success(c, desc)
}
