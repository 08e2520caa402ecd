package router

import (
	"fixcal-go/internal/handlers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Setup builds the read-only monitor API. It carries no auth and is meant to
// be bound to the rig's local interface only.
func Setup(log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	monitor := handlers.NewMonitorHandler(log)

	api := router.Group("/api")
	{
		api.GET("/sessions/:id/trials", monitor.ListTrials)
		api.GET("/sessions/:id/summary", monitor.Summary)
	}

	chartsGroup := router.Group("/charts")
	{
		chartsGroup.GET("/sessions/:id/outcomes", monitor.OutcomesChart)
		chartsGroup.GET("/sessions/:id/latency", monitor.LatencyChart)
	}

	return router
}
