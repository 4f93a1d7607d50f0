package api

import (
	"context"
	"net/http"

	"vending-console/internal/dashboard"
	"vending-console/internal/models"
	"vending-console/internal/notice"
	"vending-console/internal/purchase"
	"vending-console/internal/resources"
	"vending-console/internal/stats"
	"vending-console/internal/views"

	"github.com/gin-gonic/gin"
)

// OperationLogs lists persisted operation log entries
type OperationLogs interface {
	Recent(ctx context.Context, resource string, limit int) ([]models.OperationLog, error)
}

// Handler carries the console state served over HTTP
type Handler struct {
	Registry      *resources.Registry
	Tables        *views.Set
	Dashboard     *dashboard.Dashboard
	Purchase      *purchase.Simulator
	Stats         *stats.View
	Notices       notice.Store
	OperationLogs OperationLogs
	Metrics       http.Handler
}

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		res := api.Group("/resources")
		{
			res.GET("", h.ListResources)
			res.GET("/:name", h.ListRows)
			res.POST("/:name", h.CreateRecord)
			res.POST("/:name/load", h.LoadResource)
			res.GET("/:name/export", h.ExportRows)
			res.PUT("/:name/:id", h.UpdateRecord)
			res.DELETE("/:name/:id", h.DeleteRecord)
		}

		api.GET("/dashboard", h.GetDashboard)

		buy := api.Group("/purchase")
		{
			buy.GET("", h.GetPurchase)
			buy.POST("/init", h.InitPurchase)
			buy.POST("/machine", h.SelectMachine)
			buy.POST("/user", h.SelectUser)
			buy.POST("/buy", h.Buy)
		}

		st := api.Group("/stats")
		{
			st.GET("", h.GetStats)
			st.PUT("/period", h.SetStatsPeriod)
			st.POST("/generate", h.GenerateStats)
		}

		api.GET("/notices", h.ListNotices)
		api.GET("/operation-logs", h.ListOperationLogs)
	}

	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "vending-console",
		})
	})
}
