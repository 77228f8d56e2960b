package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/middleware"
	"github.com/challengeer/challenge-service/internal/models"
)

// DeviceCommander defines the operations used by DeviceHandler.
type DeviceCommander interface {
	RegisterDevice(cqrs.RegisterDeviceCommand) (*models.Device, error)
	RemoveDevice(cqrs.RemoveDeviceCommand) error
}

// DeviceHandler manages push notification device registrations.
type DeviceHandler struct {
	commands DeviceCommander
}

type RegisterDeviceRequest struct {
	FCMToken  string `json:"fcmToken" validate:"required"`
	Brand     string `json:"brand" validate:"max=50"`
	Model     string `json:"model" validate:"max=50"`
	OSName    string `json:"osName" validate:"max=50"`
	OSVersion string `json:"osVersion" validate:"max=50"`
}

func NewDeviceHandler(commands DeviceCommander) *DeviceHandler {
	return &DeviceHandler{commands: commands}
}

func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	device, err := h.commands.RegisterDevice(cqrs.RegisterDeviceCommand{
		UserID:    userID,
		FCMToken:  req.FCMToken,
		Brand:     req.Brand,
		Model:     req.Model,
		OSName:    req.OSName,
		OSVersion: req.OSVersion,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to register device")
		return
	}

	c.JSON(http.StatusCreated, device)
}

func (h *DeviceHandler) RemoveDevice(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	err := h.commands.RemoveDevice(cqrs.RemoveDeviceCommand{
		DeviceID:         c.Param("deviceId"),
		RequestingUserID: userID,
	})
	if err != nil {
		if err.Error() == "device not found" {
			middleware.RespondWithError(c, http.StatusNotFound, "Device not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to remove device")
		return
	}

	c.Status(http.StatusNoContent)
}
