package auth

import (
	"fmt"
	"time"

	"hotelpms/models"
	"hotelpms/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Failed-attempt lockout policy.
const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

// Login is step one of the flow. Outcomes, in order of checking: invalid
// credentials, locked, inactive, direct success on a verified device, device
// limit reached, or OTP step-up (returned as OTPPendingError).
func (s *DefaultAuthService) Login(identifier, password string, device models.Device) (*AuthResponse, error) {
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.GetByIdentifier(identifier)
	if err != nil {
		utils.GetLogger().Error("Login: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if user.IsLocked(time.Now()) {
		return nil, ErrAccountLocked
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailedAttempt(user)
		return nil, ErrInvalidCredentials
	}
	if user.LoginAttempts > 0 || !user.LockUntil.IsZero() {
		if err := s.Users.ResetLoginAttempts(user.ID); err != nil {
			utils.GetLogger().Warn("Login: failed to reset attempt counter",
				zap.String("userID", user.ID), zap.Error(err))
		}
	}

	maxDevices := user.MaxDevices()
	current := user.FindDevice(device.DeviceID)

	switch {
	case current != nil && current.Allowed():
		token, err := utils.GenerateSessionToken(user.ID, user.Username, user.Role, device.DeviceID)
		if err != nil {
			utils.GetLogger().Error("Login: token generation failed", zap.Error(err))
			return nil, fmt.Errorf("authentication failed, please try again")
		}
		if err := s.Users.RecordDeviceLogin(user.ID, device.DeviceID); err != nil {
			utils.GetLogger().Error("Login: failed to record device login",
				zap.String("userID", user.ID), zap.Error(err))
			return nil, fmt.Errorf("authentication failed, please try again")
		}
		return &AuthResponse{Token: token, User: user.Sanitize()}, nil

	case current == nil && maxDevices > 0 && user.ActiveDeviceCount() >= maxDevices:
		utils.GetLogger().Warn("Login: device limit reached",
			zap.String("userID", user.ID), zap.Int("max", maxDevices))
		return nil, DeviceLimitError{Max: maxDevices}

	default:
		// New device, unverified device, or blocked device under the ceiling:
		// all take the OTP step-up path.
		return nil, s.challengeDevice(user, device)
	}
}

// recordFailedAttempt bumps the counter and installs the lockout once the
// threshold is crossed.
func (s *DefaultAuthService) recordFailedAttempt(user *models.User) {
	var lockUntil time.Time
	if user.LoginAttempts+1 >= maxLoginAttempts {
		lockUntil = time.Now().Add(lockoutDuration)
	}
	if err := s.Users.IncLoginAttempts(user.ID, lockUntil); err != nil {
		utils.GetLogger().Error("Login: failed to record failed attempt",
			zap.String("userID", user.ID), zap.Error(err))
		return
	}
	if !lockUntil.IsZero() {
		utils.GetLogger().Warn("Login: account locked after repeated failures",
			zap.String("userID", user.ID), zap.Time("lockUntil", lockUntil))
	}
}
