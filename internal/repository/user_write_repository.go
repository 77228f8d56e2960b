package repository

import (
	"database/sql"
	"fmt"

	"github.com/challengeer/challenge-service/internal/models"
	"github.com/lib/pq"
)

// UserWriteRepository handles all state-mutating operations for users.
// It operates exclusively against the PostgreSQL write store (source of truth).
type UserWriteRepository struct {
	db *sql.DB
}

func NewUserWriteRepository(db *sql.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

func (r *UserWriteRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, username, display_name, email, phone_number,
			password_hash, google_id, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(query,
		user.ID, user.Username, user.DisplayName, user.Email, nullString(user.PhoneNumber),
		nullString(user.PasswordHash), nullString(user.GoogleID), nullString(user.ProfilePicture),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_username_key":
				return fmt.Errorf("username already taken")
			case "users_phone_number_key":
				return fmt.Errorf("phone number already registered")
			default:
				return fmt.Errorf("email already registered")
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID fetches the full write model (including PasswordHash) for internal operations.
func (r *UserWriteRepository) GetByID(id string) (*models.User, error) {
	return r.getOne(`WHERE id = $1`, id)
}

func (r *UserWriteRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`WHERE email = $1`, email)
}

// GetByGoogle matches a previously linked Google account or an existing user
// with the same email address.
func (r *UserWriteRepository) GetByGoogle(googleID, email string) (*models.User, error) {
	return r.getOne(`WHERE google_id = $1 OR email = $2`, googleID, email)
}

func (r *UserWriteRepository) getOne(where string, args ...any) (*models.User, error) {
	query := `
		SELECT id, username, display_name, email, phone_number,
			   password_hash, google_id, profile_picture, created_at, updated_at
		FROM users ` + where

	var user models.User
	var phone, passwordHash, googleID, picture sql.NullString

	err := r.db.QueryRow(query, args...).Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.Email, &phone,
		&passwordHash, &googleID, &picture, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.PhoneNumber = phone.String
	user.PasswordHash = passwordHash.String
	user.GoogleID = googleID.String
	user.ProfilePicture = picture.String
	return &user, nil
}

func (r *UserWriteRepository) UpdateProfile(user *models.User) error {
	query := `
		UPDATE users
		SET username = $2, display_name = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.Exec(query, user.ID, user.Username, user.DisplayName, user.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("username already taken")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(result, "user not found")
}

func (r *UserWriteRepository) UpdateProfilePicture(user *models.User) error {
	query := `UPDATE users SET profile_picture = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(query, user.ID, nullString(user.ProfilePicture), user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}
	return requireRow(result, "user not found")
}

// LinkGoogle attaches a Google identity to an existing account.
func (r *UserWriteRepository) LinkGoogle(userID, googleID, email string) error {
	query := `UPDATE users SET google_id = $2, email = $3, updated_at = NOW() WHERE id = $1`
	result, err := r.db.Exec(query, userID, googleID, email)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	return requireRow(result, "user not found")
}

func (r *UserWriteRepository) UsernameExists(username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

func (r *UserWriteRepository) PhoneExists(phoneNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE phone_number = $1)`, phoneNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check phone number: %w", err)
	}
	return exists, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRow(result sql.Result, notFoundMsg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s", notFoundMsg)
	}
	return nil
}
