package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-chat-server-go/internal/httperror"
	"github.com/park285/llm-chat-server-go/internal/usage"
)

// UsageHandler 는 사용량 API 핸들러다.
type UsageHandler struct {
	tracker *usage.Tracker
	logger  *slog.Logger
}

// NewUsageHandler 는 사용량 핸들러를 생성한다.
func NewUsageHandler(tracker *usage.Tracker, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// RegisterRoutes 는 사용량 라우트를 등록한다.
// /api/* 는 대시보드가 의존하는 구 경로 별칭이다 (기본 limit 만 다르다).
func (h *UsageHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/usage/stats", h.handleStats)
	router.GET("/usage/history", h.historyHandler(50))
	router.POST("/usage/reset", h.handleReset)
	router.GET("/usage/reset", h.handleReset)

	router.GET("/api/stats", h.handleStats)
	router.GET("/api/history", h.historyHandler(100))
}

func (h *UsageHandler) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Stats())
}

func (h *UsageHandler) historyHandler(defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := parseLimit(c, defaultLimit)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, h.tracker.History(limit))
	}
}

func (h *UsageHandler) handleReset(c *gin.Context) {
	h.tracker.Reset()
	h.logger.Info("usage_stats_reset")
	c.JSON(http.StatusOK, gin.H{"message": "Usage stats reset successfully"})
}

func parseLimit(c *gin.Context, defaultLimit int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		writeError(c, httperror.NewInvalidInput("limit must be an integer"))
		return 0, false
	}
	if parsed < 0 {
		parsed = 0
	}
	return parsed, true
}
