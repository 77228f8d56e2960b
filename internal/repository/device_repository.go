package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/challengeer/challenge-service/internal/models"
)

// DeviceRepository stores push-registered devices. The same physical device
// re-registering with the same token refreshes its metadata instead of
// creating a duplicate row.
type DeviceRepository struct {
	db *sql.DB
}

func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Upsert(device *models.Device) error {
	query := `
		INSERT INTO devices (id, user_id, fcm_token, brand, model, os_name, os_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, fcm_token) DO UPDATE
		SET brand = EXCLUDED.brand, model = EXCLUDED.model,
		    os_name = EXCLUDED.os_name, os_version = EXCLUDED.os_version
	`
	_, err := r.db.Exec(query,
		device.ID, device.UserID, device.FCMToken,
		nullString(device.Brand), nullString(device.Model),
		nullString(device.OSName), nullString(device.OSVersion),
		device.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

// Delete removes a device, scoped to its owner.
func (r *DeviceRepository) Delete(deviceID, userID string) error {
	result, err := r.db.Exec(`DELETE FROM devices WHERE id = $1 AND user_id = $2`, deviceID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return requireRow(result, "device not found")
}

// ListTokensByUser returns every push token registered for the user.
// Satisfies notify.DeviceTokenLister.
func (r *DeviceRepository) ListTokensByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT fcm_token FROM devices WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, tok)
	}
	return tokens, rows.Err()
}
