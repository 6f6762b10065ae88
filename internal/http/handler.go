package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lpr-console/internal/config"
	"lpr-console/internal/domain/lpr"
	"lpr-console/internal/flow"
	"lpr-console/internal/i18n"
	"lpr-console/internal/inference"
	"lpr-console/internal/service"
)

const maxUploadBytes = 100 << 20

type Handler struct {
	console *service.ConsoleService
	config  *config.Config
	log     zerolog.Logger
}

func NewHandler(
	console *service.ConsoleService,
	cfg *config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		console: console,
		config:  cfg,
		log:     log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	public := r.Group("/api/v1")
	{
		public.GET("/health", h.health)

		public.POST("/sessions", h.createSession)
		public.GET("/sessions/:id", h.getSession)
		public.DELETE("/sessions/:id", h.closeSession)
		public.PUT("/sessions/:id/mode", h.setMode)
		public.POST("/sessions/:id/file", h.selectFile)
		public.DELETE("/sessions/:id/file", h.removeFile)
		public.POST("/sessions/:id/analyze", h.analyze)
		public.GET("/sessions/:id/notifications", h.listNotifications)

		public.POST("/keys", h.createKey)
		public.GET("/keys/current", h.currentKey)
	}

	protected := r.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/history", h.listHistory)
		protected.GET("/history/:id", h.getRun)
	}

	r.GET("/ws/sessions/:id/notifications", h.streamNotifications)
}

func (h *Handler) health(c *gin.Context) {
	status, err := h.console.Health(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(status))
}

func (h *Handler) createSession(c *gin.Context) {
	locale := strings.TrimSpace(c.Query("locale"))
	if locale == "" {
		locale = c.GetHeader("Accept-Language")
	}
	info := h.console.CreateSession(locale)
	c.JSON(http.StatusCreated, successResponse(info))
}

func (h *Handler) getSession(c *gin.Context) {
	view, err := h.console.View(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(view))
}

func (h *Handler) closeSession(c *gin.Context) {
	if err := h.console.CloseSession(c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

func (h *Handler) setMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if err := h.console.SetMode(c.Param("id"), req.Mode); err != nil {
		h.handleError(c, err)
		return
	}
	h.getSession(c)
}

func (h *Handler) selectFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+(1<<20))

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse(h.catalog(c).T(i18n.ErrTooLarge)))
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse("file is required"))
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse(h.catalog(c).T(i18n.ErrTooLarge)))
		return
	}

	f, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to open upload")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read upload")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}

	file := lpr.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}
	if err := h.console.SelectFile(c.Param("id"), file); err != nil {
		h.handleError(c, err)
		return
	}
	h.getSession(c)
}

func (h *Handler) removeFile(c *gin.Context) {
	if err := h.console.RemoveFile(c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	h.getSession(c)
}

func (h *Handler) analyze(c *gin.Context) {
	// a client going away must not abort the backend call; the client timeout still bounds it
	view, err := h.console.Analyze(context.WithoutCancel(c.Request.Context()), c.Param("id"))
	if err != nil {
		var apiErr *inference.APIError
		if view != nil && errors.As(err, &apiErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": view.Snapshot.Error,
				"data":  view,
			})
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(view))
}

func (h *Handler) listNotifications(c *gin.Context) {
	toasts, err := h.console.Notifications(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(toasts))
}

func (h *Handler) createKey(c *gin.Context) {
	key, err := h.console.GenerateKey(c.Request.Context())
	if err != nil {
		var apiErr *inference.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadGateway, errorResponse(h.catalog(c).T(i18n.ErrKeyCreate)))
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(key))
}

func (h *Handler) currentKey(c *gin.Context) {
	info, err := h.console.CurrentKey(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(info))
}

func (h *Handler) listHistory(c *gin.Context) {
	plate := strings.TrimSpace(c.Query("plate"))

	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := parseInt(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	offset := 0
	if o := c.Query("offset"); o != "" {
		if parsed, err := parseInt(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	runs, err := h.console.ListHistory(c.Request.Context(), plate, limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(runs))
}

func (h *Handler) getRun(c *gin.Context) {
	run, err := h.console.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(run))
}

func (h *Handler) catalog(c *gin.Context) *i18n.Catalog {
	if lang := c.GetHeader("Accept-Language"); lang != "" {
		return i18n.New(lang)
	}
	return i18n.New(h.config.Locale)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var apiErr *inference.APIError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, flow.ErrBusy):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case errors.As(err, &apiErr):
		h.log.Warn().Err(err).Str("detail", apiErr.Detail).Msg("inference backend error")
		c.JSON(http.StatusBadGateway, errorResponse(apiErr.Localized(h.catalog(c))))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return n, nil
}
