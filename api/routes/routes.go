package routes

import (
	"example.com/fieldtrack/agent/api/handlers"
	"example.com/fieldtrack/agent/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes sets up all the routes for the local API server
func SetupRoutes(r *gin.Engine, svc *service.Service, log *logrus.Logger) {
	// Health check
	r.GET("/health", handlers.HealthCheck)

	// API routes
	api := r.Group("/api/v1")

	// Session routes
	sessionHandler := handlers.NewSessionHandler(svc, log)
	session := api.Group("/session")
	{
		session.POST("/login", sessionHandler.Login)
		session.POST("/logout", sessionHandler.Logout)
		session.GET("", sessionHandler.Session)
	}

	// Record routes
	recordsHandler := handlers.NewRecordsHandler(svc, log)
	photosHandler := handlers.NewPhotosHandler(svc, log)
	records := api.Group("/records")
	{
		records.GET("", recordsHandler.List)
		records.GET("/:id", recordsHandler.Get)
		records.PUT("/:id", recordsHandler.Update)
		records.POST("/:id/products/:product/max", recordsHandler.FillMax)
		records.POST("/:id/finalize", recordsHandler.Finalize)

		// Photo staging
		records.GET("/:id/photos", photosHandler.State)
		records.POST("/:id/photos", photosHandler.Stage)
		records.DELETE("/:id/photos/staged/:index", photosHandler.RemoveStaged)
		records.DELETE("/:id/photos/saved/:index", photosHandler.RemoveSaved)
	}

	// Sync routes
	syncHandler := handlers.NewSyncHandler(svc, log)
	sync := api.Group("/sync")
	{
		sync.POST("/refresh", syncHandler.Refresh)
		sync.POST("/push", syncHandler.Push)
		sync.POST("/images", syncHandler.UploadImages)
	}
}
