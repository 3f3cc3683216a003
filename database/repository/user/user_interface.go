package userRepo

import (
	"errors"
	"time"

	"hotelpms/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Sentinel errors surfaced by the device registry operations.
var (
	ErrDeviceLimitReached = errors.New("device limit reached")
	ErrDeviceExists       = errors.New("device already registered")
	ErrDeviceNotFound     = errors.New("device not found")
)

// UserRepository defines methods for account and device-registry data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByIdentifier retrieves a user by username or email. Returns (nil, nil)
	// when no account matches.
	GetByIdentifier(identifier string) (*models.User, error)
	// GetAll retrieves all users.
	GetAll() ([]models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Delete removes a user record by its ID.
	Delete(id string) error
	// Count returns the number of user documents.
	Count() (int64, error)
	// GetByIDWithProjection retrieves a user by its unique ID with a projection.
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)

	// RecordDeviceLogin stamps lastLogin on the account and the matching
	// device and increments the device's login count.
	RecordDeviceLogin(userID, deviceID string) error
	// AdmitDevice appends a new device, guarded by a single conditional write:
	// the device id must be absent and the non-blocked device count below
	// maxDevices (0 means unlimited). Returns ErrDeviceExists or
	// ErrDeviceLimitReached when the guard fails.
	AdmitDevice(userID string, device models.Device, maxDevices int) error
	// MarkDeviceVerified flips an existing device to verified and unblocked,
	// stamping verification time, verifier and login usage.
	MarkDeviceVerified(userID, deviceID, verifiedBy string) error

	// Administrative device operations, addressed by device id across accounts.
	ApproveDevice(deviceID, approvedBy string) error
	BlockDevice(deviceID, reason string) error
	UnblockDevice(deviceID string) error

	// Failed-attempt tracking.
	IncLoginAttempts(userID string, lockUntil time.Time) error
	ResetLoginAttempts(userID string) error
}
