package auth

import (
	"errors"
	"fmt"

	userRepo "hotelpms/database/repository/user"
)

// ListDevices returns every registered device across all accounts, annotated
// with the owning account's name, email and role.
func (s *DefaultAuthService) ListDevices() ([]AdminDevice, error) {
	users, err := s.Users.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	devices := []AdminDevice{}
	for i := range users {
		u := &users[i]
		for _, d := range u.Devices {
			devices = append(devices, AdminDevice{
				Device:    d,
				UserName:  u.FirstName + " " + u.LastName,
				UserEmail: u.Email,
				UserRole:  u.Role,
			})
		}
	}
	return devices, nil
}

// ApproveDevice marks a device verified on behalf of an administrator.
func (s *DefaultAuthService) ApproveDevice(deviceID, approvedBy string) error {
	if err := s.Users.ApproveDevice(deviceID, approvedBy); err != nil {
		if errors.Is(err, userRepo.ErrDeviceNotFound) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("failed to approve device: %w", err)
	}
	return nil
}

// BlockDevice blocks a device. A blocked device fails both the login and the
// session-verification paths until unblocked.
func (s *DefaultAuthService) BlockDevice(deviceID, reason string) error {
	if err := s.Users.BlockDevice(deviceID, reason); err != nil {
		if errors.Is(err, userRepo.ErrDeviceNotFound) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("failed to block device: %w", err)
	}
	return nil
}

// UnblockDevice clears a device's blocked flag.
func (s *DefaultAuthService) UnblockDevice(deviceID string) error {
	if err := s.Users.UnblockDevice(deviceID); err != nil {
		if errors.Is(err, userRepo.ErrDeviceNotFound) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("failed to unblock device: %w", err)
	}
	return nil
}
