package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
)

// ---- mock implementations ----

type mockDeviceCommander struct {
	registerFn func(cqrs.RegisterDeviceCommand) (*models.Device, error)
	removeFn   func(cqrs.RemoveDeviceCommand) error
}

func (m *mockDeviceCommander) RegisterDevice(cmd cqrs.RegisterDeviceCommand) (*models.Device, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockDeviceCommander) RemoveDevice(cmd cqrs.RemoveDeviceCommand) error {
	if m.removeFn != nil {
		return m.removeFn(cmd)
	}
	return fmt.Errorf("not configured")
}

// ---- helpers ----

func newDeviceTestRouter(cmds DeviceCommander, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuthUser(authUserID))
	h := NewDeviceHandler(cmds)
	v1 := r.Group("/v1/devices")
	v1.POST("", h.RegisterDevice)
	v1.DELETE("/:deviceId", h.RemoveDevice)
	return r
}

// ---- tests ----

func TestRegisterDevice(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		registerFn     func(cqrs.RegisterDeviceCommand) (*models.Device, error)
		expectedStatus int
	}{
		{
			name: "success - device registered",
			body: map[string]interface{}{"fcmToken": "token-abc", "brand": "Google", "model": "Pixel 8", "osName": "Android", "osVersion": "14"},
			registerFn: func(cmd cqrs.RegisterDeviceCommand) (*models.Device, error) {
				return &models.Device{ID: "dev-001", CreatedAt: time.Now()}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing token",
			body:           map[string]interface{}{"brand": "Google"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newDeviceTestRouter(&mockDeviceCommander{registerFn: tt.registerFn}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/devices", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRemoveDevice(t *testing.T) {
	tests := []struct {
		name           string
		removeFn       func(cqrs.RemoveDeviceCommand) error
		expectedStatus int
	}{
		{
			name:           "success - device removed",
			removeFn:       func(cmd cqrs.RemoveDeviceCommand) error { return nil },
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "not found - unknown device",
			removeFn:       func(cmd cqrs.RemoveDeviceCommand) error { return fmt.Errorf("device not found") },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newDeviceTestRouter(&mockDeviceCommander{removeFn: tt.removeFn}, "usr-001")
			w := doRequest(router, http.MethodDelete, "/v1/devices/dev-001", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
