// Package httpapi exposes the batch pipeline to the web UI.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/reel-remix/internal/metrics"
	"github.com/nguyentantai21042004/reel-remix/internal/storage"
)

// Setup builds the router. downloadsDir is served read-only under /downloads.
func Setup(h *Handler, downloadsDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), cors(), metrics.GinMiddleware())

	r.Static(storage.PublicPrefix, downloadsDir)
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.POST("/download", h.Download)
		if h.history != nil {
			api.GET("/history", h.History)
		}
	}
	return r
}

// cors allows the separately served UI to call the API.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
