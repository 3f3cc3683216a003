// File: middleware/device.go
package middleware

import (
	"hotelpms/models"
	"hotelpms/services/auth"

	"github.com/gin-gonic/gin"
)

const deviceContextKey = "device"

// DeviceDetailsMiddleware fingerprints the connection from its source IP and
// User-Agent and stores the resulting device record in the request context.
func DeviceDetailsMiddleware(fp *auth.Fingerprinter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)
		userAgent := c.GetHeader("User-Agent")

		device := fp.Fingerprint(ip, userAgent)
		c.Set(deviceContextKey, device)
		c.Next()
	}
}

// DeviceFromContext returns the fingerprinted device stored by
// DeviceDetailsMiddleware.
func DeviceFromContext(c *gin.Context) (models.Device, bool) {
	raw, exists := c.Get(deviceContextKey)
	if !exists {
		return models.Device{}, false
	}
	device, ok := raw.(models.Device)
	return device, ok
}
