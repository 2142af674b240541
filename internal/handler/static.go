package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const faviconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
    <circle cx="50" cy="50" r="45" fill="#667eea"/>
    <text x="50" y="65" font-size="50" text-anchor="middle" fill="white">🤖</text>
</svg>`

// RegisterStaticRoutes: 파비콘과 대시보드 정적 파일 라우트를 등록합니다.
func RegisterStaticRoutes(router *gin.Engine, staticDir string) {
	router.GET("/favicon.ico", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/svg+xml", []byte(faviconSVG))
	})

	if staticDir == "" {
		return
	}

	router.Static("/static", staticDir)
	router.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(staticDir, "index.html"))
	})
}
