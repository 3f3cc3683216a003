package auth

import (
	"testing"
	"time"

	"hotelpms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secondUser(t *testing.T) *models.User {
	t.Helper()
	return &models.User{
		ID:           "user-2",
		Username:     "nightaudit",
		Email:        "nightaudit@grandhotel.example",
		PasswordHash: hashPassword(t, testPassword),
		FirstName:    "Sam",
		LastName:     "Okafor",
		Role:         models.RoleManager,
		IsActive:     true,
	}
}

func TestListDevicesFlattensAcrossUsers(t *testing.T) {
	u1 := testUser(t, models.RoleReceptionist)
	u1.Devices = []models.Device{verifiedDevice("1"), verifiedDevice("2")}
	u2 := secondUser(t)
	u2.Devices = []models.Device{verifiedDevice("3")}
	svc, _, _, _ := newTestService(u1, u2)

	devices, err := svc.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 3)

	byID := make(map[string]AdminDevice, len(devices))
	for _, d := range devices {
		byID[d.DeviceID] = d
	}
	first := byID[u1.Devices[0].DeviceID]
	assert.Equal(t, "Dana Reyes", first.UserName)
	assert.Equal(t, u1.Email, first.UserEmail)
	assert.Equal(t, models.RoleReceptionist, first.UserRole)

	third := byID[u2.Devices[0].DeviceID]
	assert.Equal(t, "Sam Okafor", third.UserName)
	assert.Equal(t, models.RoleManager, third.UserRole)
}

func TestBlockDeviceEndsItsSessions(t *testing.T) {
	user := testUser(t, models.RoleReceptionist)
	device := verifiedDevice("1")
	user.Devices = []models.Device{device}
	svc, repo, _, _ := newTestService(user)

	resp, err := svc.Login(user.Username, testPassword, device)
	require.NoError(t, err)

	require.NoError(t, svc.BlockDevice(device.DeviceID, "lost terminal"))

	stored, _ := repo.GetByID(user.ID)
	blocked := stored.FindDevice(device.DeviceID)
	assert.True(t, blocked.IsBlocked)
	assert.Equal(t, "lost terminal", blocked.BlockReason)

	_, err = svc.VerifySession(resp.Token)
	assert.ErrorIs(t, err, ErrDeviceNotAllowed)
}

func TestUnblockDeviceRestoresAccess(t *testing.T) {
	user := testUser(t, models.RoleReceptionist)
	device := verifiedDevice("1")
	device.IsBlocked = true
	device.BlockedAt = time.Now()
	device.BlockReason = "suspicious"
	user.Devices = []models.Device{device}
	svc, repo, _, _ := newTestService(user)

	require.NoError(t, svc.UnblockDevice(device.DeviceID))

	stored, _ := repo.GetByID(user.ID)
	got := stored.FindDevice(device.DeviceID)
	assert.False(t, got.IsBlocked)
	assert.Empty(t, got.BlockReason)
}

func TestApproveDeviceRecordsApprover(t *testing.T) {
	user := testUser(t, models.RoleReceptionist)
	device := testDevice("1")
	user.Devices = []models.Device{device}
	svc, repo, _, _ := newTestService(user)

	require.NoError(t, svc.ApproveDevice(device.DeviceID, "admin-9"))

	stored, _ := repo.GetByID(user.ID)
	approved := stored.FindDevice(device.DeviceID)
	assert.True(t, approved.IsVerified)
	assert.Equal(t, "admin-9", approved.VerifiedBy)
}

func TestDeviceOpsUnknownDevice(t *testing.T) {
	svc, _, _, _ := newTestService(testUser(t, models.RoleReceptionist))

	assert.ErrorIs(t, svc.ApproveDevice("missing", "admin-9"), ErrDeviceNotFound)
	assert.ErrorIs(t, svc.BlockDevice("missing", ""), ErrDeviceNotFound)
	assert.ErrorIs(t, svc.UnblockDevice("missing"), ErrDeviceNotFound)
}
