// File: hotelpms/services/auth/otp.go
package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"hotelpms/models"
	"hotelpms/utils"

	"go.uber.org/zap"
)

// challengeDevice issues (or re-uses) an OTP challenge for the device and
// returns the OTPPendingError carrying the pending token. While a code is
// still outstanding for this (account, device) pair no second email goes out.
func (s *DefaultAuthService) challengeDevice(user *models.User, device models.Device) error {
	if !s.otpOutstanding(user.ID, device.DeviceID) {
		code, err := generateOTP()
		if err != nil {
			utils.GetLogger().Error("OTP: generation failed", zap.Error(err))
			return fmt.Errorf("authentication failed, please try again")
		}

		rec := &models.DeviceOTP{
			UserID:    user.ID,
			DeviceID:  device.DeviceID,
			OTP:       code,
			ExpiresAt: time.Now().Add(utils.PendingTokenTTL),
			CreatedAt: time.Now(),
		}
		if err := s.OTPs.Create(rec); err != nil {
			utils.GetLogger().Error("OTP: failed to store challenge", zap.Error(err))
			return fmt.Errorf("authentication failed, please try again")
		}

		if err := s.Mailer.SendOTP(user.Email, code, user, device); err != nil {
			utils.GetLogger().Error("OTP: email delivery failed",
				zap.String("userID", user.ID), zap.Error(err))
			return ErrOTPDelivery
		}
		s.markOTPSent(user.ID, device.DeviceID)

		utils.GetLogger().Info("OTP: challenge issued",
			zap.String("userID", user.ID), zap.String("deviceID", device.DeviceID))
	}

	pending, err := utils.GeneratePendingToken(user.ID, device.DeviceID)
	if err != nil {
		utils.GetLogger().Error("OTP: pending token generation failed", zap.Error(err))
		return fmt.Errorf("authentication failed, please try again")
	}
	return OTPPendingError{PendingToken: pending, MaskedEmail: maskEmail(user.Email)}
}

// generateOTP draws a 6-digit code, uniform over 100000-999999, from a
// cryptographically strong source.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

func otpSentKey(userID, deviceID string) string {
	return fmt.Sprintf("otpsent:%s:%s", userID, deviceID)
}

// otpOutstanding reports whether an unexpired code was already mailed for
// this pair. Cache errors count as "not outstanding" so a cache outage never
// blocks login.
func (s *DefaultAuthService) otpOutstanding(userID, deviceID string) bool {
	if s.Cache == nil {
		return false
	}
	outstanding, err := s.Cache.Outstanding(context.Background(), otpSentKey(userID, deviceID))
	if err != nil {
		utils.GetLogger().Warn("OTP: failed to check challenge marker", zap.Error(err))
		return false
	}
	return outstanding
}

func (s *DefaultAuthService) markOTPSent(userID, deviceID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Mark(context.Background(), otpSentKey(userID, deviceID), utils.PendingTokenTTL); err != nil {
		utils.GetLogger().Warn("OTP: failed to mark challenge as sent", zap.Error(err))
	}
}

func (s *DefaultAuthService) clearOTPSent(userID, deviceID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Clear(context.Background(), otpSentKey(userID, deviceID)); err != nil {
		utils.GetLogger().Warn("OTP: failed to clear challenge marker", zap.Error(err))
	}
}

// maskEmail keeps the first character of the local part and the full domain.
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
