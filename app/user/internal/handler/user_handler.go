package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notehub/notehub/app/user/internal/metrics"
	"github.com/notehub/notehub/app/user/internal/service"
	"github.com/notehub/notehub/pkg/logger"
	"github.com/notehub/notehub/pkg/web"
	weberrors "github.com/notehub/notehub/pkg/web/errors"
)

// UserHandler 用户 HTTP 处理器
type UserHandler struct {
	service *service.UserService
	pinger  func(ctx context.Context) error // 数据库连通性探测，供 /test-db 使用
	metrics *metrics.UserMetrics
	logger  logger.Logger
}

// NewUserHandler 创建用户处理器
func NewUserHandler(s *service.UserService, pinger func(ctx context.Context) error, m *metrics.UserMetrics, l logger.Logger) *UserHandler {
	return &UserHandler{
		service: s,
		pinger:  pinger,
		metrics: m,
		logger:  l.Named("handler.user"),
	}
}

// UserRequest 创建/更新用户请求
type UserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
}

// Register 注册路由
func (h *UserHandler) Register(r *gin.Engine) {
	api := r.Group("/api/users")
	{
		api.GET("/test", h.Test)
		api.GET("/test-db", h.TestDB)
		api.POST("", h.Create)
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
	}
}

// Test 服务连通性探测
func (h *UserHandler) Test(c *gin.Context) {
	web.Success(c, gin.H{"status": "ok"})
}

// TestDB 数据库连通性探测
func (h *UserHandler) TestDB(c *gin.Context) {
	if err := h.pinger(c.Request.Context()); err != nil {
		h.logger.Error("database probe failed", "error", err)
		web.Error(c, http.StatusServiceUnavailable, weberrors.CodeExternalError, "database unavailable")
		return
	}
	web.Success(c, gin.H{"status": "ok"})
}

// Create 创建用户
func (h *UserHandler) Create(c *gin.Context) {
	start := time.Now()

	var req UserRequest
	if !web.BindAndValidate(c, &req) {
		return
	}

	user, err := h.service.Create(c.Request.Context(), service.UserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		h.handleError(c, err, "create user failed")
		h.metrics.RecordRequest("POST", "/api/users", "error", time.Since(start).Seconds())
		return
	}

	h.metrics.RecordRequest("POST", "/api/users", "ok", time.Since(start).Seconds())
	c.JSON(http.StatusCreated, web.Response{
		Code:    weberrors.CodeOK,
		Message: "ok",
		Data:    user,
	})
}

// List 获取全部用户
func (h *UserHandler) List(c *gin.Context) {
	start := time.Now()

	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "list users failed")
		h.metrics.RecordRequest("GET", "/api/users", "error", time.Since(start).Seconds())
		return
	}

	h.metrics.RecordRequest("GET", "/api/users", "ok", time.Since(start).Seconds())
	web.Success(c, users)
}

// Get 按 ID 查询用户
func (h *UserHandler) Get(c *gin.Context) {
	start := time.Now()

	user, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err, "get user failed")
		h.metrics.RecordRequest("GET", "/api/users/:id", "error", time.Since(start).Seconds())
		return
	}

	h.metrics.RecordRequest("GET", "/api/users/:id", "ok", time.Since(start).Seconds())
	web.Success(c, user)
}

// Update 整体替换用户档案字段
func (h *UserHandler) Update(c *gin.Context) {
	start := time.Now()

	var req UserRequest
	if !web.BindAndValidate(c, &req) {
		return
	}

	user, err := h.service.Update(c.Request.Context(), c.Param("id"), service.UserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		h.handleError(c, err, "update user failed")
		h.metrics.RecordRequest("PUT", "/api/users/:id", "error", time.Since(start).Seconds())
		return
	}

	h.metrics.RecordRequest("PUT", "/api/users/:id", "ok", time.Since(start).Seconds())
	web.Success(c, user)
}

// Delete 删除用户
func (h *UserHandler) Delete(c *gin.Context) {
	start := time.Now()

	deleted, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err, "delete user failed")
		h.metrics.RecordRequest("DELETE", "/api/users/:id", "error", time.Since(start).Seconds())
		return
	}

	h.metrics.RecordRequest("DELETE", "/api/users/:id", "ok", time.Since(start).Seconds())
	if !deleted {
		web.Error(c, http.StatusNotFound, weberrors.CodeNotFound, "user not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// handleError 将领域错误映射为 HTTP 响应
func (h *UserHandler) handleError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		web.Error(c, http.StatusNotFound, weberrors.CodeNotFound, "user not found")
	case errors.Is(err, service.ErrEmailExists):
		web.Error(c, http.StatusConflict, weberrors.CodeInvalidParams, "email already in use")
	default:
		h.logger.Error(logMsg, "error", err)
		web.Error(c, http.StatusInternalServerError, weberrors.CodeInternalError, "internal error")
	}
}
