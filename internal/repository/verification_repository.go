package repository

import (
	"database/sql"
	"fmt"

	"github.com/challengeer/challenge-service/internal/models"
)

// VerificationRepository stores one verification code per phone number;
// issuing a new code replaces the previous one.
type VerificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Upsert(code *models.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (phone_number, code, verified, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone_number) DO UPDATE
		SET code = EXCLUDED.code, verified = EXCLUDED.verified,
		    created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at
	`
	_, err := r.db.Exec(query, code.PhoneNumber, code.Code, code.Verified, code.CreatedAt, code.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

func (r *VerificationRepository) Get(phoneNumber string) (*models.VerificationCode, error) {
	query := `
		SELECT phone_number, code, verified, created_at, expires_at
		FROM verification_codes
		WHERE phone_number = $1
	`
	var code models.VerificationCode
	err := r.db.QueryRow(query, phoneNumber).Scan(
		&code.PhoneNumber, &code.Code, &code.Verified, &code.CreatedAt, &code.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("phone number not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification code: %w", err)
	}
	return &code, nil
}

func (r *VerificationRepository) MarkVerified(phoneNumber string) error {
	result, err := r.db.Exec(`UPDATE verification_codes SET verified = TRUE WHERE phone_number = $1`, phoneNumber)
	if err != nil {
		return fmt.Errorf("failed to mark verified: %w", err)
	}
	return requireRow(result, "phone number not found")
}
