package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/challengeer/challenge-service/internal/models"
	"github.com/lib/pq"
)

// SubmissionRepository stores challenge photo submissions and per-viewer
// seen-state.
type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(sub *models.ChallengeSubmission) error {
	query := `
		INSERT INTO challenge_submissions (id, challenge_id, user_id, photo_url, caption, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query, sub.ID, sub.ChallengeID, sub.UserID, sub.PhotoURL, nullString(sub.Caption), sub.SubmittedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("already submitted")
		}
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) HasSubmitted(challengeID, userID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM challenge_submissions
			WHERE challenge_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(query, challengeID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check submission: %w", err)
	}
	return exists, nil
}

// ListPhotoURLs returns the stored photo URLs of a challenge's submissions.
// Used to clean up object storage when the challenge is deleted.
func (r *SubmissionRepository) ListPhotoURLs(challengeID string) ([]string, error) {
	rows, err := r.db.Query(`SELECT photo_url FROM challenge_submissions WHERE challenge_id = $1`, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photo urls: %w", err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan photo url: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

// ListWithUsers returns every submission in a challenge joined with its
// author's public profile. IsNew is true for submissions by other users that
// the viewer has no view record for.
func (r *SubmissionRepository) ListWithUsers(challengeID, viewerID string) ([]models.SubmissionView, error) {
	query := `
		SELECT s.id, s.challenge_id, s.user_id, s.photo_url, s.caption, s.submitted_at,
			   u.id, u.username, u.display_name, u.profile_picture,
			   (v.submission_id IS NULL AND s.user_id != $2) AS is_new
		FROM challenge_submissions s
		JOIN users u ON u.id = s.user_id
		LEFT JOIN submission_views v ON v.submission_id = s.id AND v.viewer_id = $2
		WHERE s.challenge_id = $1
		ORDER BY s.submitted_at
	`
	rows, err := r.db.Query(query, challengeID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := []models.SubmissionView{}
	for rows.Next() {
		var view models.SubmissionView
		var caption, picture sql.NullString
		if err := rows.Scan(
			&view.ID, &view.ChallengeID, &view.UserID, &view.PhotoURL, &caption, &view.SubmittedAt,
			&view.User.ID, &view.User.Username, &view.User.DisplayName, &picture,
			&view.IsNew,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		view.Caption = caption.String
		view.User.ProfilePicture = picture.String
		submissions = append(submissions, view)
	}
	return submissions, rows.Err()
}

// MarkViewed records that the viewer has now seen the given submissions.
func (r *SubmissionRepository) MarkViewed(viewerID string, submissionIDs []string, viewedAt time.Time) error {
	if len(submissionIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO submission_views (submission_id, viewer_id, viewed_at)
		SELECT unnest($1::text[]), $2, $3
		ON CONFLICT (submission_id, viewer_id) DO NOTHING
	`
	_, err := r.db.Exec(query, pq.Array(submissionIDs), viewerID, viewedAt)
	if err != nil {
		return fmt.Errorf("failed to mark submissions viewed: %w", err)
	}
	return nil
}

// HasNew reports whether the challenge holds submissions by other users the
// viewer hasn't seen.
func (r *SubmissionRepository) HasNew(challengeID, viewerID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM challenge_submissions s
			WHERE s.challenge_id = $1 AND s.user_id != $2
			  AND NOT EXISTS (
				SELECT 1 FROM submission_views v
				WHERE v.submission_id = s.id AND v.viewer_id = $2
			  )
		)
	`
	var exists bool
	if err := r.db.QueryRow(query, challengeID, viewerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check new submissions: %w", err)
	}
	return exists, nil
}
