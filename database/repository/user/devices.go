// File: database/repository/user/devices.go
//
// Device-registry mutations. Every operation here is a single conditional
// write so concurrent logins against the same account cannot lose updates to
// the embedded device list.
package userRepo

import (
	"fmt"
	"time"

	"hotelpms/models"

	"go.mongodb.org/mongo-driver/bson"
)

// AdmitDevice appends a device only when its id is absent from the list and
// the non-blocked device count is below maxDevices. Both conditions sit in
// the update filter, closing the check-then-push race between two
// simultaneous OTP verifications.
func (r *MongoUserRepo) AdmitDevice(userID string, device models.Device, maxDevices int) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":               userID,
		"devices.deviceId": bson.M{"$ne": device.DeviceID},
	}
	if maxDevices > 0 {
		filter["$expr"] = bson.M{"$lt": bson.A{
			bson.M{"$size": bson.M{"$filter": bson.M{
				"input": bson.M{"$ifNull": bson.A{"$devices", bson.A{}}},
				"as":    "d",
				"cond":  bson.M{"$ne": bson.A{"$$d.isBlocked", true}},
			}}},
			maxDevices,
		}}
	}

	now := time.Now()
	update := bson.M{
		"$push": bson.M{"devices": device},
		"$set":  bson.M{"lastLogin": now, "updated_at": now},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to admit device for user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		// The guard rejected the write; re-read to report which condition failed.
		existing, err := r.GetByIDWithProjection(userID, bson.M{"devices": 1})
		if err != nil {
			return fmt.Errorf("failed to admit device for user %s: %w", userID, err)
		}
		if existing == nil {
			return fmt.Errorf("user with id %s not found", userID)
		}
		if existing.FindDevice(device.DeviceID) != nil {
			return ErrDeviceExists
		}
		return ErrDeviceLimitReached
	}
	return nil
}

// MarkDeviceVerified flips an existing device to verified and unblocked and
// records the verification alongside login usage.
func (r *MongoUserRepo) MarkDeviceVerified(userID, deviceID, verifiedBy string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"id": userID, "devices.deviceId": deviceID}
	update := bson.M{
		"$set": bson.M{
			"devices.$.isVerified": true,
			"devices.$.isBlocked":  false,
			"devices.$.verifiedAt": now,
			"devices.$.verifiedBy": verifiedBy,
			"devices.$.lastLogin":  now,
			"lastLogin":            now,
			"updated_at":           now,
		},
		"$inc": bson.M{"devices.$.loginCount": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to verify device %s for user %s: %w", deviceID, userID, err)
	}
	if res.MatchedCount == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// RecordDeviceLogin stamps login usage on a recognized device.
func (r *MongoUserRepo) RecordDeviceLogin(userID, deviceID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"id": userID, "devices.deviceId": deviceID}
	update := bson.M{
		"$set": bson.M{
			"lastLogin":           now,
			"devices.$.lastLogin": now,
			"updated_at":          now,
		},
		"$inc": bson.M{"devices.$.loginCount": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to record login for device %s: %w", deviceID, err)
	}
	if res.MatchedCount == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// ApproveDevice marks a device as verified, addressed by device id across all
// accounts (administrative path).
func (r *MongoUserRepo) ApproveDevice(deviceID, approvedBy string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"devices.deviceId": deviceID}
	update := bson.M{
		"$set": bson.M{
			"devices.$.isVerified": true,
			"devices.$.verifiedAt": now,
			"devices.$.verifiedBy": approvedBy,
			"updated_at":           now,
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to approve device %s: %w", deviceID, err)
	}
	if res.MatchedCount == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// BlockDevice flags a device as blocked, recording when and why.
func (r *MongoUserRepo) BlockDevice(deviceID, reason string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"devices.deviceId": deviceID}
	update := bson.M{
		"$set": bson.M{
			"devices.$.isBlocked":   true,
			"devices.$.blockedAt":   now,
			"devices.$.blockReason": reason,
			"updated_at":            now,
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to block device %s: %w", deviceID, err)
	}
	if res.MatchedCount == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// UnblockDevice clears the blocked flag and its bookkeeping.
func (r *MongoUserRepo) UnblockDevice(deviceID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"devices.deviceId": deviceID}
	update := bson.M{
		"$set": bson.M{
			"devices.$.isBlocked": false,
			"updated_at":          time.Now(),
		},
		"$unset": bson.M{
			"devices.$.blockedAt":   "",
			"devices.$.blockReason": "",
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to unblock device %s: %w", deviceID, err)
	}
	if res.MatchedCount == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// IncLoginAttempts bumps the failed-attempt counter and, when supplied,
// installs a lockout deadline in the same write.
func (r *MongoUserRepo) IncLoginAttempts(userID string, lockUntil time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$inc": bson.M{"loginAttempts": 1}}
	if !lockUntil.IsZero() {
		update["$set"] = bson.M{"lockUntil": lockUntil}
	}

	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": userID}, update); err != nil {
		return fmt.Errorf("failed to record failed attempt for user %s: %w", userID, err)
	}
	return nil
}

// ResetLoginAttempts clears the failed-attempt state after a successful
// credential check.
func (r *MongoUserRepo) ResetLoginAttempts(userID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$set":   bson.M{"loginAttempts": 0},
		"$unset": bson.M{"lockUntil": ""},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": userID}, update); err != nil {
		return fmt.Errorf("failed to reset attempts for user %s: %w", userID, err)
	}
	return nil
}
