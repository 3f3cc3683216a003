package handlers

import (
	"errors"
	"net/http"
	"strings"

	"hotelpms/middleware"
	"hotelpms/services/auth"
	"hotelpms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler exposes the login, OTP-verification and session-verification
// endpoints.
type AuthHandler struct {
	Service auth.AuthService
}

func NewAuthHandler(service auth.AuthService) *AuthHandler {
	return &AuthHandler{Service: service}
}

// LoginHandler handles step one of the flow. The identifier is accepted as
// either username or email.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Identifier and password are required", "")
		return
	}

	device, ok := middleware.DeviceFromContext(c)
	if !ok {
		logger.Error("LoginHandler: missing device details in context")
		utils.JSONError(c, http.StatusInternalServerError, "Server error", "")
		return
	}

	resp, err := h.Service.Login(req.Identifier, req.Password, device)
	if err != nil {
		var pending auth.OTPPendingError
		var limit auth.DeviceLimitError
		switch {
		case errors.As(err, &pending):
			c.JSON(http.StatusOK, gin.H{
				"requiresOTP":       true,
				"pendingToken":      pending.PendingToken,
				"maskedDestination": pending.MaskedEmail,
				"message":           "OTP sent to your email.",
			})
		case errors.As(err, &limit):
			utils.JSONError(c, http.StatusForbidden, limit.Error(), "MAX_DEVICES")
		case errors.Is(err, auth.ErrInvalidCredentials),
			errors.Is(err, auth.ErrAccountInactive),
			errors.Is(err, auth.ErrAccountLocked):
			utils.JSONError(c, http.StatusUnauthorized, err.Error(), "")
		case errors.Is(err, auth.ErrOTPDelivery):
			logger.Error("LoginHandler: OTP delivery failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, err.Error(), "")
		default:
			logger.Error("LoginHandler: login failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Server error", "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": resp.Token, "user": resp.User})
}

// VerifyOTPHandler handles step two: the pending token plus submitted code.
func (h *AuthHandler) VerifyOTPHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		PendingToken string `json:"pendingToken" binding:"required"`
		OTP          string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Pending token and OTP are required", "")
		return
	}

	device, ok := middleware.DeviceFromContext(c)
	if !ok {
		logger.Error("VerifyOTPHandler: missing device details in context")
		utils.JSONError(c, http.StatusInternalServerError, "Server error", "")
		return
	}

	resp, err := h.Service.VerifyOTP(req.PendingToken, req.OTP, device)
	if err != nil {
		var limit auth.DeviceLimitError
		switch {
		case errors.As(err, &limit):
			utils.JSONError(c, http.StatusForbidden, limit.Error(), "MAX_DEVICES")
		case errors.Is(err, auth.ErrInvalidPendingToken),
			errors.Is(err, auth.ErrInvalidOTP),
			errors.Is(err, auth.ErrAccountInactive):
			utils.JSONError(c, http.StatusUnauthorized, err.Error(), "")
		default:
			logger.Error("VerifyOTPHandler: verification failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Server error", "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": resp.Token, "user": resp.User})
}

// VerifySessionHandler validates the bearer token and returns the current
// account profile. Rejections are uniform.
func (h *AuthHandler) VerifySessionHandler(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
		return
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	user, err := h.Service.VerifySession(tokenString)
	if err != nil {
		if errors.Is(err, auth.ErrDeviceNotAllowed) {
			utils.JSONError(c, http.StatusUnauthorized, auth.ErrDeviceNotAllowed.Error(), "")
			return
		}
		utils.JSONError(c, http.StatusUnauthorized, auth.ErrInvalidToken.Error(), "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
