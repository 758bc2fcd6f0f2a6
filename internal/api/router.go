package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires the dashboard routes onto a gin engine.
func NewRouter(h *Handler, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/areas", h.Areas)
		api.GET("/areas/:area/summary", h.Summary)
		api.GET("/areas/:area/daily", h.Daily)
		api.GET("/areas/:area/trend", h.Trend)
		api.GET("/areas/:area/defaults", h.Defaults)

		api.POST("/predict", h.Predict)
		api.GET("/model", h.Model)

		api.GET("/model/accuracy.png", h.AccuracyChart)
		api.GET("/charts/:area/daily.png", h.DailyChart)
		api.GET("/charts/:area/trend.png", h.TrendChart)

		api.GET("/report.xlsx", h.Report)
	}

	return router
}
