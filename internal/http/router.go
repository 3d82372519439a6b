package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/h2o/internal/database"
)

// RouterConfig holds all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Database *database.Database
	Version  string

	Settings  PreferenceStore
	Sender    SendService
	History   HistoryStore
	Scheduler Scheduler // optional
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	settingsController := NewSettingsController(cfg.Settings, cfg.Scheduler)
	sendController := NewSendController(cfg.Sender)
	historyController := NewHistoryController(cfg.History)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Preferences
	api.GET("/settings", settingsController.GetSettings)
	api.PUT("/settings", settingsController.UpdateSettings)
	api.DELETE("/settings", settingsController.ResetSettings)

	// Send actions
	api.POST("/preview", sendController.Preview)
	api.POST("/send/new", sendController.SendNew)
	api.POST("/send/all", sendController.SendAll)
	api.POST("/send/resend", sendController.Resend)
	api.POST("/send/books", sendController.SendBooks)

	// History
	api.GET("/history", historyController.GetHistory)

	return router
}
