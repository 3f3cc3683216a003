package routes

import (
	"net/http"
	"time"

	"hotelpms/handlers"
	"hotelpms/middleware"
	"hotelpms/models"
	"hotelpms/services/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers and services the routes need.
type HandlerBundle struct {
	AuthService   auth.AuthService
	Fingerprinter *auth.Fingerprinter
	AuthHandler   *handlers.AuthHandler
	DeviceHandler *handlers.DeviceAdminHandler
}

// RegisterAuthRoutes registers the login flow endpoints. Login and
// OTP-verification fingerprint the connection; session verification relies on
// the token's device claim alone.
func RegisterAuthRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", middleware.DeviceDetailsMiddleware(hb.Fingerprinter), hb.AuthHandler.LoginHandler)
		api.POST("/verify-otp", middleware.DeviceDetailsMiddleware(hb.Fingerprinter), hb.AuthHandler.VerifyOTPHandler)
		api.POST("/verify", hb.AuthHandler.VerifySessionHandler)
	}
}

// RegisterAdminRoutes sets up the device-registry administration endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.SessionAuthMiddleware(hb.AuthService))
		adminGroup.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleManager))
		adminGroup.GET("/devices", hb.DeviceHandler.ListDevicesHandler)
		adminGroup.POST("/devices/:deviceId/approve", hb.DeviceHandler.ApproveDeviceHandler)
		adminGroup.POST("/devices/:deviceId/block", hb.DeviceHandler.BlockDeviceHandler)
		adminGroup.POST("/devices/:deviceId/unblock", hb.DeviceHandler.UnblockDeviceHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
