package handlers

import (
	"errors"
	"net/http"

	"hotelpms/services/auth"
	"hotelpms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DeviceAdminHandler exposes the administrative device-registry endpoints.
type DeviceAdminHandler struct {
	Service auth.AuthService
}

func NewDeviceAdminHandler(service auth.AuthService) *DeviceAdminHandler {
	return &DeviceAdminHandler{Service: service}
}

// ListDevicesHandler returns every device across accounts, annotated with the
// owning account.
func (h *DeviceAdminHandler) ListDevicesHandler(c *gin.Context) {
	devices, err := h.Service.ListDevices()
	if err != nil {
		getLogger(c).Error("ListDevicesHandler: failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch devices", "")
		return
	}
	c.JSON(http.StatusOK, devices)
}

// ApproveDeviceHandler marks a device as verified. The approver defaults to
// the authenticated admin when the body omits one.
func (h *DeviceAdminHandler) ApproveDeviceHandler(c *gin.Context) {
	deviceID := c.Param("deviceId")

	var req struct {
		ApprovedBy string `json:"approvedBy"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.ApprovedBy == "" {
		req.ApprovedBy = c.GetString("userID")
	}

	if err := h.Service.ApproveDevice(deviceID, req.ApprovedBy); err != nil {
		if errors.Is(err, auth.ErrDeviceNotFound) {
			utils.JSONError(c, http.StatusNotFound, auth.ErrDeviceNotFound.Error(), "")
			return
		}
		getLogger(c).Error("ApproveDeviceHandler: failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to approve device", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device approved successfully"})
}

// BlockDeviceHandler flags a device as blocked with an optional reason.
func (h *DeviceAdminHandler) BlockDeviceHandler(c *gin.Context) {
	deviceID := c.Param("deviceId")

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.Service.BlockDevice(deviceID, req.Reason); err != nil {
		if errors.Is(err, auth.ErrDeviceNotFound) {
			utils.JSONError(c, http.StatusNotFound, auth.ErrDeviceNotFound.Error(), "")
			return
		}
		getLogger(c).Error("BlockDeviceHandler: failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to block device", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device blocked successfully"})
}

// UnblockDeviceHandler clears a device's blocked flag.
func (h *DeviceAdminHandler) UnblockDeviceHandler(c *gin.Context) {
	deviceID := c.Param("deviceId")

	if err := h.Service.UnblockDevice(deviceID); err != nil {
		if errors.Is(err, auth.ErrDeviceNotFound) {
			utils.JSONError(c, http.StatusNotFound, auth.ErrDeviceNotFound.Error(), "")
			return
		}
		getLogger(c).Error("UnblockDeviceHandler: failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to unblock device", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device unblocked successfully"})
}
