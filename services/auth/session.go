package auth

import (
	"fmt"

	"hotelpms/models"
	"hotelpms/utils"

	"go.uber.org/zap"
)

// VerifySession validates a bearer session token and re-reads current
// account and device state, so blocking a device or deactivating an account
// takes effect on the next request even for tokens that have not expired.
// Failures are uniform to the caller; the reason is only logged.
func (s *DefaultAuthService) VerifySession(tokenString string) (*models.User, error) {
	claims, err := utils.ParseSessionToken(tokenString)
	if err != nil {
		utils.GetLogger().Debug("VerifySession: token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}

	user, err := s.Users.GetByID(claims.UserID)
	if err != nil {
		utils.GetLogger().Error("VerifySession: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("verification failed, please try again")
	}
	if user == nil {
		utils.GetLogger().Warn("VerifySession: user not found", zap.String("userID", claims.UserID))
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		utils.GetLogger().Warn("VerifySession: account deactivated", zap.String("userID", user.ID))
		return nil, ErrInvalidToken
	}

	device := user.FindDevice(claims.DeviceID)
	if device == nil || !device.Allowed() {
		utils.GetLogger().Warn("VerifySession: device not allowed",
			zap.String("userID", user.ID), zap.String("deviceID", claims.DeviceID))
		return nil, ErrDeviceNotAllowed
	}

	return user.Sanitize(), nil
}
