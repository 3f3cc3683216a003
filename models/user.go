// File: hotelpms/models/user.go
package models

import "time"

// Staff roles. SUPER_ADMIN has no device ceiling; every other role is
// limited by SecuritySettings.MaxDevices.
const (
	RoleSuperAdmin   = "SUPER_ADMIN"
	RoleManager      = "MANAGER"
	RoleReceptionist = "RECEPTIONIST"
	RoleHousekeeping = "HOUSEKEEPING"
	RoleRestaurant   = "RESTAURANT"
)

// DefaultMaxDevices applies when an account has no explicit device ceiling.
const DefaultMaxDevices = 2

// SecuritySettings holds per-account device policy.
type SecuritySettings struct {
	MaxDevices            int  `bson:"maxDevices" json:"maxDevices"`
	RequireDeviceApproval bool `bson:"requireDeviceApproval" json:"requireDeviceApproval"`
	NotifyOnNewDevice     bool `bson:"notifyOnNewDevice" json:"notifyOnNewDevice"`
}

// User represents a staff account. Devices are embedded so the account
// document is the unit of mutation for the whole device list.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password" json:"-"`
	FirstName    string    `bson:"firstName" json:"firstName"`
	LastName     string    `bson:"lastName" json:"lastName"`
	Role         string    `bson:"role" json:"role"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	IsActive     bool      `bson:"isActive" json:"isActive"`
	LastLogin    time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`

	Devices          []Device         `bson:"devices" json:"devices"`
	SecuritySettings SecuritySettings `bson:"securitySettings" json:"securitySettings"`

	LoginAttempts int       `bson:"loginAttempts" json:"-"`
	LockUntil     time.Time `bson:"lockUntil,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// MaxDevices returns the device ceiling for this account, or 0 for unlimited.
func (u *User) MaxDevices() int {
	if u.Role == RoleSuperAdmin {
		return 0
	}
	if u.SecuritySettings.MaxDevices > 0 {
		return u.SecuritySettings.MaxDevices
	}
	return DefaultMaxDevices
}

// FindDevice returns the device with the given ID, or nil.
func (u *User) FindDevice(deviceID string) *Device {
	for i := range u.Devices {
		if u.Devices[i].DeviceID == deviceID {
			return &u.Devices[i]
		}
	}
	return nil
}

// ActiveDeviceCount counts devices that are not blocked. Blocked devices do
// not occupy a ceiling slot.
func (u *User) ActiveDeviceCount() int {
	count := 0
	for i := range u.Devices {
		if !u.Devices[i].IsBlocked {
			count++
		}
	}
	return count
}

// IsLocked reports whether the account is under a failed-attempt lockout.
func (u *User) IsLocked(now time.Time) bool {
	return !u.LockUntil.IsZero() && u.LockUntil.After(now)
}

// Sanitize clears credential material before the record leaves the service
// layer. The hash field already carries `json:"-"`; clearing it as well keeps
// the value out of logs and custom encoders.
func (u *User) Sanitize() *User {
	u.PasswordHash = ""
	return u
}
