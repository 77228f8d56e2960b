package repository

import (
	"database/sql"
	"fmt"

	"github.com/challengeer/challenge-service/internal/models"
)

// ContactRepository stores uploaded address-book snapshots and computes
// contact-graph friend recommendations.
type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// ReplaceAll swaps the user's contact snapshot atomically. Clients upload
// the full address book each time, so a delete-and-insert inside one
// transaction is the contract.
func (r *ContactRepository) ReplaceAll(userID string, contacts []models.Contact) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM contacts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear contacts: %w", err)
	}

	insert := `
		INSERT INTO contacts (id, user_id, contact_name, phone_number, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, phone_number) DO NOTHING
	`
	for _, contact := range contacts {
		if _, err := tx.Exec(insert, contact.ID, userID, contact.ContactName, contact.PhoneNumber, contact.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit contacts: %w", err)
	}
	return nil
}

// Recommendations finds users who share phone numbers with the caller's
// contact snapshot, excluding existing friends, ranked by overlap size.
func (r *ContactRepository) Recommendations(userID string) ([]models.RecommendationView, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.profile_picture, COUNT(*) AS mutual_contacts
		FROM contacts mine
		JOIN contacts theirs ON theirs.phone_number = mine.phone_number AND theirs.user_id != mine.user_id
		JOIN users u ON u.id = theirs.user_id
		WHERE mine.user_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM friendships f
			WHERE (f.user1_id = $1 AND f.user2_id = u.id)
			   OR (f.user2_id = $1 AND f.user1_id = u.id)
		  )
		GROUP BY u.id, u.username, u.display_name, u.profile_picture
		ORDER BY mutual_contacts DESC, u.username
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute recommendations: %w", err)
	}
	defer rows.Close()

	recommendations := []models.RecommendationView{}
	for rows.Next() {
		var rec models.RecommendationView
		var picture sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Username, &rec.DisplayName, &picture, &rec.MutualContacts); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec.ProfilePicture = picture.String
		recommendations = append(recommendations, rec)
	}
	return recommendations, rows.Err()
}
