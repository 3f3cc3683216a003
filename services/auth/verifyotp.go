package auth

import (
	"errors"
	"fmt"
	"time"

	otpRepo "hotelpms/database/repository/otp"
	userRepo "hotelpms/database/repository/user"
	"hotelpms/models"
	"hotelpms/utils"

	"go.uber.org/zap"
)

// VerifyOTP is step two of the flow: redeem the pending token plus submitted
// code, then admit the device (new) or re-verify it (known). The device
// ceiling is re-checked here because other devices may have been admitted
// since the challenge was issued.
func (s *DefaultAuthService) VerifyOTP(pendingToken, code string, device models.Device) (*AuthResponse, error) {
	userID, deviceID, err := utils.ParsePendingToken(pendingToken)
	if err != nil {
		return nil, ErrInvalidPendingToken
	}

	if err := s.OTPs.Consume(userID, deviceID, code); err != nil {
		if errors.Is(err, otpRepo.ErrNoMatch) {
			return nil, ErrInvalidOTP
		}
		utils.GetLogger().Error("VerifyOTP: failed to consume code", zap.Error(err))
		return nil, fmt.Errorf("verification failed, please try again")
	}

	user, err := s.Users.GetByID(userID)
	if err != nil {
		utils.GetLogger().Error("VerifyOTP: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("verification failed, please try again")
	}
	if user == nil {
		return nil, ErrInvalidPendingToken
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if existing := user.FindDevice(deviceID); existing != nil {
		if err := s.Users.MarkDeviceVerified(user.ID, deviceID, user.ID); err != nil {
			utils.GetLogger().Error("VerifyOTP: failed to verify device", zap.Error(err))
			return nil, fmt.Errorf("verification failed, please try again")
		}
	} else {
		now := time.Now()
		admitted := device
		// Bind to the fingerprint the challenge was issued for, not whatever
		// the resubmission looks like.
		admitted.DeviceID = deviceID
		admitted.IsVerified = true
		admitted.IsBlocked = false
		admitted.VerifiedAt = now
		admitted.VerifiedBy = user.ID
		admitted.LastLogin = now
		admitted.LoginCount = 1
		admitted.CreatedAt = now

		err := s.Users.AdmitDevice(user.ID, admitted, user.MaxDevices())
		switch {
		case errors.Is(err, userRepo.ErrDeviceExists):
			// A concurrent verification admitted it first; verify in place.
			if err := s.Users.MarkDeviceVerified(user.ID, deviceID, user.ID); err != nil {
				utils.GetLogger().Error("VerifyOTP: failed to verify device", zap.Error(err))
				return nil, fmt.Errorf("verification failed, please try again")
			}
		case errors.Is(err, userRepo.ErrDeviceLimitReached):
			return nil, DeviceLimitError{Max: user.MaxDevices()}
		case err != nil:
			utils.GetLogger().Error("VerifyOTP: failed to admit device", zap.Error(err))
			return nil, fmt.Errorf("verification failed, please try again")
		}
	}

	s.clearOTPSent(userID, deviceID)

	token, err := utils.GenerateSessionToken(user.ID, user.Username, user.Role, deviceID)
	if err != nil {
		utils.GetLogger().Error("VerifyOTP: token generation failed", zap.Error(err))
		return nil, fmt.Errorf("verification failed, please try again")
	}
	return &AuthResponse{Token: token, User: user.Sanitize()}, nil
}
