package auth

import (
	otpRepo "hotelpms/database/repository/otp"
	userRepo "hotelpms/database/repository/user"
	"hotelpms/models"
	"hotelpms/services/mailer"
)

// AuthService defines the device-bound authentication flow.
type AuthService interface {
	// Login runs the credential check and device lookup and either completes
	// the login, rejects it, or returns OTPPendingError for step-up.
	Login(identifier, password string, device models.Device) (*AuthResponse, error)
	// VerifyOTP redeems a pending token plus submitted code, admits or
	// re-verifies the device and completes the login.
	VerifyOTP(pendingToken, code string, device models.Device) (*AuthResponse, error)
	// VerifySession validates a bearer session token against current account
	// and device state.
	VerifySession(token string) (*models.User, error)

	// Administrative device registry operations.
	ListDevices() ([]AdminDevice, error)
	ApproveDevice(deviceID, approvedBy string) error
	BlockDevice(deviceID, reason string) error
	UnblockDevice(deviceID string) error
}

// AuthResponse is returned on a completed login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AdminDevice is a device annotated with its owning account, for the admin
// listing.
type AdminDevice struct {
	models.Device
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserRole  string `json:"userRole"`
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Users  userRepo.UserRepository
	OTPs   otpRepo.OTPRepository
	Mailer mailer.Mailer
	// Cache suppresses duplicate OTP emails while a code is outstanding.
	// Optional: a nil cache means every challenge sends a fresh email.
	Cache ChallengeCache
}
