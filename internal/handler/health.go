package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/park285/llm-chat-server-go/internal/config"
	"github.com/park285/llm-chat-server-go/internal/health"
	"github.com/park285/llm-chat-server-go/internal/metrics"
)

// RegisterHealthRoutes: 상태 확인과 메트릭 라우트를 등록합니다.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, metricsStore *metrics.Store) {
	router.GET("/health", func(c *gin.Context) {
		// Liveness: 저장소 쓰기 검사 같은 외부 의존성 상태로 다운 판정되지
		// 않도록 shallow로 유지합니다.
		payload := health.Collect(c.Request.Context(), cfg, false)
		c.JSON(http.StatusOK, payload)
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := health.Collect(c.Request.Context(), cfg, true)
		status := http.StatusOK
		if payload.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})

	// Prometheus 메트릭 (장기 히스토리 분석용)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 프로세스 시작 이후의 인메모리 스냅샷
	router.GET("/api/llm/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, metricsStore.Snapshot())
	})
}
