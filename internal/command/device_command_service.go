package command

import (
	"time"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
	"github.com/challengeer/challenge-service/internal/utils"
)

// DeviceCommandService registers and removes push-capable devices.
type DeviceCommandService struct {
	deviceRepo *repository.DeviceRepository
}

func NewDeviceCommandService(deviceRepo *repository.DeviceRepository) *DeviceCommandService {
	return &DeviceCommandService{deviceRepo: deviceRepo}
}

func (s *DeviceCommandService) RegisterDevice(cmd cqrs.RegisterDeviceCommand) (*models.Device, error) {
	device := &models.Device{
		ID:        utils.GenerateID("dev"),
		UserID:    cmd.UserID,
		FCMToken:  cmd.FCMToken,
		Brand:     cmd.Brand,
		Model:     cmd.Model,
		OSName:    cmd.OSName,
		OSVersion: cmd.OSVersion,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.deviceRepo.Upsert(device); err != nil {
		return nil, err
	}
	return device, nil
}

func (s *DeviceCommandService) RemoveDevice(cmd cqrs.RemoveDeviceCommand) error {
	return s.deviceRepo.Delete(cmd.DeviceID, cmd.RequestingUserID)
}
