package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/park285/llm-chat-server-go/internal/config"
)

// CORS 는 허용 출처 설정에 따른 CORS 미들웨어다.
// 출처가 "*" 이면 모든 출처를 허용한다 (자격 증명 제외).
func CORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-API-Key", RequestIDHeader}

	origins := []string{"*"}
	if cfg != nil && len(cfg.CORS.AllowOrigins) > 0 {
		origins = cfg.CORS.AllowOrigins
	}

	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}

	return cors.New(corsConfig)
}
