package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notehub/notehub/app/notes/internal/metrics"
	"github.com/notehub/notehub/app/notes/internal/service"
	"github.com/notehub/notehub/pkg/logger"
	"github.com/notehub/notehub/pkg/web"
	weberrors "github.com/notehub/notehub/pkg/web/errors"
)

// HeaderUserID 调用者身份头，由上游网关填入
const HeaderUserID = "X-User-Id"

// NoteHandler 笔记 HTTP 处理器
type NoteHandler struct {
	service *service.NoteService
	metrics *metrics.NotesMetrics
	logger  logger.Logger
}

// NewNoteHandler 创建笔记处理器
func NewNoteHandler(s *service.NoteService, m *metrics.NotesMetrics, l logger.Logger) *NoteHandler {
	return &NoteHandler{
		service: s,
		metrics: m,
		logger:  l.Named("handler.note"),
	}
}

// CreateNoteRequest 创建/更新笔记请求
type CreateNoteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Pinned   bool     `json:"pinned"`
	Archived bool     `json:"archived"`
}

// Register 注册路由
func (h *NoteHandler) Register(r *gin.Engine) {
	api := r.Group("/api/notes")
	{
		api.POST("", h.Create)
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
	}
}

// callerID 提取调用者身份，缺失时返回 401
func (h *NoteHandler) callerID(c *gin.Context) (string, bool) {
	userID := c.GetHeader(HeaderUserID)
	if userID == "" {
		web.Error(c, http.StatusUnauthorized, weberrors.CodeUnAuthorized, "missing X-User-Id header")
		return "", false
	}
	return userID, true
}

// Create 创建笔记
func (h *NoteHandler) Create(c *gin.Context) {
	start := time.Now()

	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if !web.BindAndValidate(c, &req) {
		return
	}

	note, err := h.service.Create(c.Request.Context(), userID, service.NoteInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Pinned:   req.Pinned,
		Archived: req.Archived,
	})
	if err != nil {
		h.handleError(c, err, "create note failed")
		h.metrics.RecordRequest("POST", "/api/notes", "error", time.Since(start).Seconds())
		return
	}

	h.metrics.NotesCreated.Inc()
	h.metrics.RecordRequest("POST", "/api/notes", "ok", time.Since(start).Seconds())
	c.JSON(http.StatusCreated, web.Response{
		Code:    weberrors.CodeOK,
		Message: "ok",
		Data:    note,
	})
}

// List 分页查询当前调用者的笔记
func (h *NoteHandler) List(c *gin.Context) {
	start := time.Now()

	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	page := web.GetQueryInt(c, "page", 0)
	size := web.GetQueryInt(c, "size", service.DefaultPageSize)

	notes, err := h.service.ListByOwner(c.Request.Context(), userID, page, size)
	if err != nil {
		h.handleError(c, err, "list notes failed")
		h.metrics.RecordRequest("GET", "/api/notes", "error", time.Since(start).Seconds())
		return
	}

	h.metrics.RecordRequest("GET", "/api/notes", "ok", time.Since(start).Seconds())
	web.Success(c, notes)
}

// Get 查询单条笔记
func (h *NoteHandler) Get(c *gin.Context) {
	start := time.Now()

	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	note, err := h.service.GetForOwner(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleError(c, err, "get note failed")
		h.metrics.RecordRequest("GET", "/api/notes/:id", "error", time.Since(start).Seconds())
		return
	}

	h.metrics.RecordRequest("GET", "/api/notes/:id", "ok", time.Since(start).Seconds())
	web.Success(c, note)
}

// Update 整体替换笔记字段
func (h *NoteHandler) Update(c *gin.Context) {
	start := time.Now()

	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if !web.BindAndValidate(c, &req) {
		return
	}

	note, err := h.service.Update(c.Request.Context(), c.Param("id"), userID, service.NoteInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Pinned:   req.Pinned,
		Archived: req.Archived,
	})
	if err != nil {
		h.handleError(c, err, "update note failed")
		h.metrics.RecordRequest("PUT", "/api/notes/:id", "error", time.Since(start).Seconds())
		return
	}

	h.metrics.RecordRequest("PUT", "/api/notes/:id", "ok", time.Since(start).Seconds())
	web.Success(c, note)
}

// Delete 删除笔记
// 未命中与他人笔记均返回 404，不暴露归属差异
func (h *NoteHandler) Delete(c *gin.Context) {
	start := time.Now()

	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleError(c, err, "delete note failed")
		h.metrics.RecordRequest("DELETE", "/api/notes/:id", "error", time.Since(start).Seconds())
		return
	}

	if !deleted {
		h.metrics.RecordRequest("DELETE", "/api/notes/:id", "ok", time.Since(start).Seconds())
		web.Error(c, http.StatusNotFound, weberrors.CodeNotFound, "note not found")
		return
	}

	h.metrics.NotesDeleted.Inc()
	h.metrics.RecordRequest("DELETE", "/api/notes/:id", "ok", time.Since(start).Seconds())
	c.Status(http.StatusNoContent)
}

// handleError 将领域错误映射为 HTTP 响应
func (h *NoteHandler) handleError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrTitleRequired):
		web.Error(c, http.StatusBadRequest, weberrors.CodeInvalidParams, "title is required")
	case errors.Is(err, service.ErrNoteNotFound):
		web.Error(c, http.StatusNotFound, weberrors.CodeNotFound, "note not found")
	case errors.Is(err, service.ErrNoteForbidden):
		web.Error(c, http.StatusForbidden, weberrors.CodeForbidden, "note does not belong to caller")
	default:
		h.logger.Error(logMsg, "error", err)
		web.Error(c, http.StatusInternalServerError, weberrors.CodeInternalError, "internal error")
	}
}
