package routes

import (
	"time"

	"carvistors/config"
	"carvistors/handlers"
	"carvistors/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterAuthRoutes registers registration and login endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/admin/register", hb.RegisterAdminHandler)
		api.POST("/login", hb.LoginHandler)
	}
}

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.GET("/all", middleware.JWTAuthAdminMiddleware(), hb.GetAllUsersHandler)
		api.GET("/:id", middleware.JWTAuthMiddleware(), hb.GetUserByIDHandler)
	}
}

// RegisterVinRoutes registers the decoder and VIN request endpoints.
func RegisterVinRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/vin/decode", hb.DecodeVINHandler)

	api := r.Group("/api/requests")
	{
		api.POST("/create", hb.CreateVinRequestHandler)
		api.GET("/user/:email", hb.GetUserVinRequestsHandler)
		api.GET("/:id", hb.GetVinRequestHandler)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthAdminMiddleware())
		admin.GET("/all", hb.GetAllVinRequestsHandler)
		admin.PUT("/:id/status", hb.UpdateVinRequestHandler)
	}
}

// RegisterReportRoutes registers advanced decode report endpoints. Generating
// and browsing reports is admin-only.
func RegisterReportRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reports")
	{
		api.GET("/vin/:vin", middleware.JWTAuthMiddleware(), hb.GetReportByVINHandler)
		api.GET("/:id", middleware.JWTAuthMiddleware(), hb.GetReportHandler)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthAdminMiddleware())
		admin.POST("/decode", hb.AdvancedDecodeHandler)
		admin.GET("/all", hb.GetAllReportsHandler)
	}
}

// RegisterNotificationRoutes registers inbox endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.POST("", hb.CreateNotificationHandler)
		api.GET("/user/:userId", hb.ListNotificationsHandler)
		api.GET("/user", hb.ListNotificationsHandler)
		api.GET("/user/:userId/unread-count", hb.UnreadCountHandler)
		api.PATCH("/:notificationId/read", hb.MarkNotificationReadHandler)
		api.PATCH("/user/:userId/read-all", hb.MarkAllReadHandler)
		api.PATCH("/user/read-all", hb.MarkAllReadHandler)
	}
}

// RegisterContactRoutes registers the public contact form.
func RegisterContactRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/contact/submit", hb.SubmitContactHandler)
}

// corsConfig allows any origin outside production and the configured list in
// production.
func corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if config.IsProduction() {
		cfg.AllowOrigins = config.Origins()
	} else {
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cfg
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(corsConfig()))

	RegisterHealthRoute(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterVinRoutes(r, hb)
	RegisterReportRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterContactRoutes(r, hb)
}
