package routes

import (
	"net/http"
	"time"

	hostRepo "schedulify/database/repository/host"
	"schedulify/handlers"
	"schedulify/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the sign-in flow endpoints.
func RegisterAuthRoutes(r *gin.Engine, auth *handlers.AuthHandler, hosts hostRepo.HostRepository) {
	api := r.Group("/api/auth")
	{
		api.GET("/signin", auth.SignInHandler)
		api.GET("/callback", auth.CallbackHandler)

		// Sign-out needs an authenticated session to revoke.
		api.POST("/signout", middleware.JWTAuthHostMiddleware(hosts), auth.SignOutHandler)
	}
}

// RegisterHostRoutes registers the session-protected dashboard endpoints.
func RegisterHostRoutes(r *gin.Engine, host *handlers.HostHandler, hosts hostRepo.HostRepository) {
	api := r.Group("/api/hosts")
	{
		api.Use(middleware.JWTAuthHostMiddleware(hosts))
		api.GET("/me", host.GetMeHandler)
		api.PUT("/me/settings", host.UpdateSettingsHandler)
	}
}

// RegisterBookingRoutes registers the public guest-facing endpoints.
func RegisterBookingRoutes(r *gin.Engine, booking *handlers.BookingHandler) {
	api := r.Group("/api/book")
	{
		api.GET("/:slug", booking.GetHostCardHandler)
		api.GET("/:slug/slots", booking.GetSlotsHandler)
		api.POST("/:slug", booking.BookHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Schedulify"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, auth *handlers.AuthHandler, host *handlers.HostHandler, booking *handlers.BookingHandler, hosts hostRepo.HostRepository) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, auth, hosts)
	RegisterHostRoutes(r, host, hosts)
	RegisterBookingRoutes(r, booking)
	RegisterHealthRoute(r)
}
