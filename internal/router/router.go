package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sudooom.rummy/internal/handler"
	"sudooom.rummy/internal/health"
)

// SetupRouter 设置路由
func SetupRouter(mode string, checker *health.Checker, gameHandler *handler.GameHandler) *gin.Engine {
	// 设置 Gin 模式
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, checker.Check(c.Request.Context()))
	})
	r.GET("/ready", gin.WrapH(checker))

	// API v1
	v1 := r.Group("/api/v1")
	{
		games := v1.Group("/games")
		{
			games.POST("", gameHandler.CreateGame)
			games.GET("/:id", gameHandler.GetGame)
			games.DELETE("/:id", gameHandler.CloseGame)
			games.POST("/:id/draw", gameHandler.Draw)
			games.POST("/:id/place", gameHandler.PlaceOnTable)
			games.POST("/:id/groups/:groupId/tiles", gameHandler.AddToGroup)
			games.POST("/:id/end-turn", gameHandler.EndTurn)
			games.POST("/:id/restart", gameHandler.Restart)
		}
	}

	return r
}

// requestLogger 请求日志中间件
func requestLogger() gin.HandlerFunc {
	logger := slog.Default().With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"clientIp", c.ClientIP())
	}
}
