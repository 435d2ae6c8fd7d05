package routes

import (
	"time"

	"healthcart/handlers"
	"healthcart/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up slot enumeration and reservation endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		// Public lookups
		api.GET("/available-slots", hb.Booking.AvailableSlots)
		api.GET("/next-available-slot", hb.Booking.NextAvailableSlot)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.POST("/book-slot", hb.Booking.BookSlot)
		protected.DELETE("/cancel/:orderId", hb.Booking.CancelBooking)

		api.GET("/collector/:folderId", middleware.JWTAuthAdminMiddleware(hb.UserRepo), hb.Booking.FolderSlots)
	}
}

// RegisterOrderRoutes registers the patient order endpoints.
func RegisterOrderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/orders")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("", hb.Order.Create)
		api.GET("", hb.Order.ListMine)
		api.GET("/:id", hb.Order.Get)
	}
}

// RegisterAdminRoutes registers collector folder management and order operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.JWTAuthAdminMiddleware(hb.UserRepo))

	folders := admin.Group("/collector-folders")
	{
		folders.GET("", hb.Collector.List)
		folders.POST("", hb.Collector.Create)
		folders.GET("/:id", hb.Collector.Get)
		folders.PUT("/:id", hb.Collector.Update)
		folders.PATCH("/:id/status", hb.Collector.SetStatus)
		folders.DELETE("/:id", hb.Collector.Delete)
		folders.GET("/:id/stats", hb.Collector.Stats)
	}

	orders := admin.Group("/orders")
	{
		orders.GET("", hb.Order.ListAll)
		orders.PATCH("/:id/status", hb.Order.UpdateStatus)
	}

	if hb.Admin != nil {
		admin.POST("/reconcile", hb.Admin.Reconcile)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.AdminKeyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterOrderRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
