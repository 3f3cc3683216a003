// File: hotelpms/models/device.go
package models

import "time"

// Device is one distinct client an account has logged in from. It is owned
// by its User document; the deviceId is unique within one account's list but
// two accounts sharing a network and browser will legitimately produce the
// same fingerprint.
type Device struct {
	DeviceID   string `bson:"deviceId" json:"deviceId"`
	DeviceName string `bson:"deviceName" json:"deviceName"`
	IPAddress  string `bson:"ipAddress" json:"ipAddress"`
	UserAgent  string `bson:"userAgent" json:"userAgent"`
	OS         string `bson:"os" json:"os"`
	Browser    string `bson:"browser" json:"browser"`

	IsVerified bool      `bson:"isVerified" json:"isVerified"`
	IsBlocked  bool      `bson:"isBlocked" json:"isBlocked"`
	VerifiedAt time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	VerifiedBy string    `bson:"verifiedBy,omitempty" json:"verifiedBy,omitempty"`

	BlockedAt   time.Time `bson:"blockedAt,omitempty" json:"blockedAt,omitempty"`
	BlockReason string    `bson:"blockReason,omitempty" json:"blockReason,omitempty"`

	LastLogin  time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	LoginCount int       `bson:"loginCount" json:"loginCount"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// Allowed reports whether the device may carry an authenticated session.
func (d *Device) Allowed() bool {
	return d.IsVerified && !d.IsBlocked
}

// DeviceOTP is an outstanding one-time-code challenge scoped to one
// (account, device) pair. Records self-expire via a TTL index; reads filter
// on expiry regardless.
type DeviceOTP struct {
	UserID    string    `bson:"userId" json:"userId"`
	DeviceID  string    `bson:"deviceId" json:"deviceId"`
	OTP       string    `bson:"otp" json:"otp"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
