package auth

import (
	"errors"
	"fmt"
)

// Flow outcomes returned by the auth service. Credential failures are
// deliberately uniform: the caller cannot tell a missing account from a wrong
// password. Operational states (inactive, locked, limit, blocked) are
// distinguishable.
var (
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrAccountInactive     = errors.New("Account is deactivated")
	ErrAccountLocked       = errors.New("Account temporarily locked. Try again later")
	ErrInvalidOTP          = errors.New("Invalid or expired OTP")
	ErrInvalidPendingToken = errors.New("Invalid verification token")
	ErrInvalidToken        = errors.New("Invalid token")
	ErrDeviceNotAllowed    = errors.New("Device not allowed")
	ErrDeviceNotFound      = errors.New("Device not found")
	ErrOTPDelivery         = errors.New("Could not send verification code")
)

// OTPPendingError signals that credentials checked out but the device needs
// OTP step-up. It carries the pending token the client must echo back and a
// masked hint of where the code was sent.
type OTPPendingError struct {
	PendingToken string
	MaskedEmail  string
}

func (e OTPPendingError) Error() string {
	return "OTP verification required; code sent to " + e.MaskedEmail
}

// DeviceLimitError signals that admitting the device would exceed the
// account's ceiling.
type DeviceLimitError struct {
	Max int
}

func (e DeviceLimitError) Error() string {
	return fmt.Sprintf("Maximum allowed devices (%d) reached.", e.Max)
}
