package auth

import (
	"context"
	"errors"
	"time"

	userRepo "hotelpms/database/repository/user"
	"hotelpms/models"

	otpRepo "hotelpms/database/repository/otp"

	"go.mongodb.org/mongo-driver/bson"
)

// fakeUserRepo is an in-memory UserRepository honoring the same guard
// semantics as the Mongo implementation.
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.Devices = make([]models.Device, len(u.Devices))
	copy(cp.Devices, u.Devices)
	return &cp
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByIDWithProjection(id string, _ bson.M) (*models.User, error) {
	return r.GetByID(id)
}

func (r *fakeUserRepo) GetByIdentifier(identifier string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == identifier || u.Email == identifier {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetAll() ([]models.User, error) {
	out := []models.User{}
	for _, u := range r.users {
		out = append(out, *copyUser(u))
	}
	return out, nil
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count() (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) RecordDeviceLogin(userID, deviceID string) error {
	u, ok := r.users[userID]
	if !ok {
		return userRepo.ErrDeviceNotFound
	}
	d := u.FindDevice(deviceID)
	if d == nil {
		return userRepo.ErrDeviceNotFound
	}
	now := time.Now()
	d.LastLogin = now
	d.LoginCount++
	u.LastLogin = now
	return nil
}

func (r *fakeUserRepo) AdmitDevice(userID string, device models.Device, maxDevices int) error {
	u, ok := r.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	if u.FindDevice(device.DeviceID) != nil {
		return userRepo.ErrDeviceExists
	}
	if maxDevices > 0 && u.ActiveDeviceCount() >= maxDevices {
		return userRepo.ErrDeviceLimitReached
	}
	u.Devices = append(u.Devices, device)
	u.LastLogin = time.Now()
	return nil
}

func (r *fakeUserRepo) MarkDeviceVerified(userID, deviceID, verifiedBy string) error {
	u, ok := r.users[userID]
	if !ok {
		return userRepo.ErrDeviceNotFound
	}
	d := u.FindDevice(deviceID)
	if d == nil {
		return userRepo.ErrDeviceNotFound
	}
	now := time.Now()
	d.IsVerified = true
	d.IsBlocked = false
	d.VerifiedAt = now
	d.VerifiedBy = verifiedBy
	d.LastLogin = now
	d.LoginCount++
	u.LastLogin = now
	return nil
}

func (r *fakeUserRepo) findDeviceOwner(deviceID string) (*models.User, *models.Device) {
	for _, u := range r.users {
		if d := u.FindDevice(deviceID); d != nil {
			return u, d
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ApproveDevice(deviceID, approvedBy string) error {
	_, d := r.findDeviceOwner(deviceID)
	if d == nil {
		return userRepo.ErrDeviceNotFound
	}
	d.IsVerified = true
	d.VerifiedAt = time.Now()
	d.VerifiedBy = approvedBy
	return nil
}

func (r *fakeUserRepo) BlockDevice(deviceID, reason string) error {
	_, d := r.findDeviceOwner(deviceID)
	if d == nil {
		return userRepo.ErrDeviceNotFound
	}
	d.IsBlocked = true
	d.BlockedAt = time.Now()
	d.BlockReason = reason
	return nil
}

func (r *fakeUserRepo) UnblockDevice(deviceID string) error {
	_, d := r.findDeviceOwner(deviceID)
	if d == nil {
		return userRepo.ErrDeviceNotFound
	}
	d.IsBlocked = false
	d.BlockedAt = time.Time{}
	d.BlockReason = ""
	return nil
}

func (r *fakeUserRepo) IncLoginAttempts(userID string, lockUntil time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.LoginAttempts++
	if !lockUntil.IsZero() {
		u.LockUntil = lockUntil
	}
	return nil
}

func (r *fakeUserRepo) ResetLoginAttempts(userID string) error {
	u, ok := r.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.LoginAttempts = 0
	u.LockUntil = time.Time{}
	return nil
}

// fakeOTPRepo is an in-memory OTPRepository with the same consume semantics
// as the Mongo implementation.
type fakeOTPRepo struct {
	records []models.DeviceOTP
}

func (r *fakeOTPRepo) Create(rec *models.DeviceOTP) error {
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeOTPRepo) Consume(userID, deviceID, code string) error {
	now := time.Now()
	for i, rec := range r.records {
		if rec.UserID == userID && rec.DeviceID == deviceID && rec.OTP == code && rec.ExpiresAt.After(now) {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return otpRepo.ErrNoMatch
}

func (r *fakeOTPRepo) find(userID, deviceID string) *models.DeviceOTP {
	for i := range r.records {
		if r.records[i].UserID == userID && r.records[i].DeviceID == deviceID {
			return &r.records[i]
		}
	}
	return nil
}

// fakeMailer records sent codes and can be told to fail.
type fakeMailer struct {
	sent []string
	to   []string
	err  error
}

func (m *fakeMailer) SendOTP(to, code string, _ *models.User, _ models.Device) error {
	if m.err != nil {
		return m.err
	}
	m.to = append(m.to, to)
	m.sent = append(m.sent, code)
	return nil
}

// fakeChallengeCache is an in-memory ChallengeCache with error injection.
type fakeChallengeCache struct {
	marks map[string]bool
	err   error
}

func newFakeChallengeCache() *fakeChallengeCache {
	return &fakeChallengeCache{marks: make(map[string]bool)}
}

func (c *fakeChallengeCache) Outstanding(_ context.Context, key string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	return c.marks[key], nil
}

func (c *fakeChallengeCache) Mark(_ context.Context, key string, _ time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.marks[key] = true
	return nil
}

func (c *fakeChallengeCache) Clear(_ context.Context, key string) error {
	if c.err != nil {
		return c.err
	}
	delete(c.marks, key)
	return nil
}
