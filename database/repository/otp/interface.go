package otpRepo

import (
	"errors"

	"hotelpms/models"
)

// ErrNoMatch is returned when no unexpired code matches a consume attempt.
// Callers present it uniformly; whether the code was wrong, already used or
// expired is deliberately not distinguished.
var ErrNoMatch = errors.New("no matching OTP")

// OTPRepository persists outstanding one-time-code challenges.
type OTPRepository interface {
	// Create stores a new challenge record.
	Create(rec *models.DeviceOTP) error
	// Consume atomically finds and deletes the record matching
	// (userID, deviceID, code) with an expiry still in the future.
	// Returns ErrNoMatch when nothing qualifies.
	Consume(userID, deviceID, code string) error
}
