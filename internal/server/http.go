package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/park285/llm-chat-server-go/internal/config"
)

// 모델 응답이 느릴 수 있으므로 쓰기 타임아웃은 Gemini 타임아웃보다 길게 잡는다.
const writeTimeoutMargin = 30 * time.Second

// NewHTTPServer 는 HTTP 서버를 생성한다. HTTP2_ENABLED 면 h2c 로 감싼다.
func NewHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second + writeTimeoutMargin,
		IdleTimeout:       2 * time.Minute,
	}

	if cfg.HTTP.HTTP2Enabled {
		server.Handler = h2c.NewHandler(router, &http2.Server{})
	}

	return server
}
