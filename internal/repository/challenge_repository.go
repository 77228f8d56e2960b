package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/challengeer/challenge-service/internal/models"
	"github.com/lib/pq"
)

// ChallengeRepository stores challenges and their invitations.
type ChallengeRepository struct {
	db *sql.DB
}

func NewChallengeRepository(db *sql.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) Create(challenge *models.Challenge) error {
	query := `
		INSERT INTO challenges (id, creator_id, title, description, emoji, category,
			status, start_date, end_date, reminder_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(query,
		challenge.ID, challenge.CreatorID, challenge.Title, nullString(challenge.Description),
		challenge.Emoji, challenge.Category, challenge.Status,
		challenge.StartDate, challenge.EndDate, challenge.ReminderSent, challenge.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

func (r *ChallengeRepository) GetByID(id string) (*models.Challenge, error) {
	query := `
		SELECT id, creator_id, title, description, emoji, category,
			   status, start_date, end_date, reminder_sent, created_at
		FROM challenges
		WHERE id = $1
	`
	var challenge models.Challenge
	var description sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&challenge.ID, &challenge.CreatorID, &challenge.Title, &description,
		&challenge.Emoji, &challenge.Category, &challenge.Status,
		&challenge.StartDate, &challenge.EndDate, &challenge.ReminderSent, &challenge.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("challenge not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	challenge.Description = description.String
	return &challenge, nil
}

// UpdateDetails writes a challenge's title and description.
func (r *ChallengeRepository) UpdateDetails(challenge *models.Challenge) error {
	query := `UPDATE challenges SET title = $2, description = $3 WHERE id = $1`
	result, err := r.db.Exec(query, challenge.ID, challenge.Title, nullString(challenge.Description))
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	return requireRow(result, "challenge not found")
}

// Delete removes a challenge together with its invitations, submissions, and
// view records in one transaction.
func (r *ChallengeRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cleanup := []string{
		`DELETE FROM submission_views WHERE submission_id IN
			(SELECT id FROM challenge_submissions WHERE challenge_id = $1)`,
		`DELETE FROM challenge_submissions WHERE challenge_id = $1`,
		`DELETE FROM challenge_invitations WHERE challenge_id = $1`,
	}
	for _, stmt := range cleanup {
		if _, err := tx.Exec(stmt, id); err != nil {
			return fmt.Errorf("failed to delete challenge data: %w", err)
		}
	}

	result, err := tx.Exec(`DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if err := requireRow(result, "challenge not found"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit challenge deletion: %w", err)
	}
	return nil
}

// IsParticipant reports whether the user is the creator or an accepted
// invitee of the challenge.
func (r *ChallengeRepository) IsParticipant(challengeID, userID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM challenges c WHERE c.id = $1 AND c.creator_id = $2
			UNION
			SELECT 1 FROM challenge_invitations i
			WHERE i.challenge_id = $1 AND i.receiver_id = $2 AND i.status = 'accepted'
		)
	`
	var exists bool
	if err := r.db.QueryRow(query, challengeID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}
	return exists, nil
}

func (r *ChallengeRepository) CreateInvitation(inv *models.ChallengeInvitation) error {
	query := `
		INSERT INTO challenge_invitations (id, challenge_id, sender_id, receiver_id, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query, inv.ID, inv.ChallengeID, inv.SenderID, inv.ReceiverID, inv.Status, inv.SentAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("invitation already exists")
		}
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

func (r *ChallengeRepository) GetInvitation(id string) (*models.ChallengeInvitation, error) {
	query := `
		SELECT id, challenge_id, sender_id, receiver_id, status, sent_at, responded_at
		FROM challenge_invitations
		WHERE id = $1
	`
	var inv models.ChallengeInvitation
	var respondedAt sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&inv.ID, &inv.ChallengeID, &inv.SenderID, &inv.ReceiverID, &inv.Status, &inv.SentAt, &respondedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invitation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	return &inv, nil
}

func (r *ChallengeRepository) HasInvitation(challengeID, receiverID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM challenge_invitations
			WHERE challenge_id = $1 AND receiver_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(query, challengeID, receiverID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check invitation: %w", err)
	}
	return exists, nil
}

func (r *ChallengeRepository) UpdateInvitationStatus(id string, status models.InvitationStatus, respondedAt time.Time) error {
	query := `UPDATE challenge_invitations SET status = $2, responded_at = $3 WHERE id = $1`
	result, err := r.db.Exec(query, id, status, respondedAt)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}
	return requireRow(result, "invitation not found")
}

// ListOwnedActive returns the user's own challenges that haven't ended yet,
// each flagged with whether it holds submissions the user hasn't viewed.
func (r *ChallengeRepository) ListOwnedActive(userID string) ([]models.ChallengeSummaryView, error) {
	query := `
		SELECT c.id, c.title, c.emoji, c.category, c.end_date,
		` + hasNewSubmissionsExpr + `
		FROM challenges c
		WHERE c.creator_id = $1 AND c.end_date > NOW()
		ORDER BY c.end_date
	`
	return r.listSummaries(query, userID)
}

// ListParticipatingActive returns challenges the user has accepted an
// invitation to and that haven't ended yet.
func (r *ChallengeRepository) ListParticipatingActive(userID string) ([]models.ChallengeSummaryView, error) {
	query := `
		SELECT c.id, c.title, c.emoji, c.category, c.end_date,
		` + hasNewSubmissionsExpr + `
		FROM challenges c
		JOIN challenge_invitations i
		  ON i.challenge_id = c.id AND i.receiver_id = $1 AND i.status = 'accepted'
		WHERE c.end_date > NOW()
		ORDER BY c.end_date
	`
	return r.listSummaries(query, userID)
}

// hasNewSubmissionsExpr computes, inline, whether the challenge has
// submissions by other users that $1 has not viewed yet.
const hasNewSubmissionsExpr = `
		EXISTS(
			SELECT 1 FROM challenge_submissions s
			WHERE s.challenge_id = c.id AND s.user_id != $1
			  AND NOT EXISTS (
				SELECT 1 FROM submission_views v
				WHERE v.submission_id = s.id AND v.viewer_id = $1
			  )
		) AS has_new
`

func (r *ChallengeRepository) listSummaries(query string, userID string) ([]models.ChallengeSummaryView, error) {
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	summaries := []models.ChallengeSummaryView{}
	for rows.Next() {
		var s models.ChallengeSummaryView
		if err := rows.Scan(&s.ChallengeID, &s.Title, &s.Emoji, &s.Category, &s.EndDate, &s.HasNewSubmissions); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ListPendingInvitations returns the user's pending invitations to challenges
// that haven't ended, joined with the sender's public profile.
func (r *ChallengeRepository) ListPendingInvitations(userID string) ([]models.InvitationView, error) {
	query := `
		SELECT i.id, c.id, c.title, c.emoji, c.category, c.end_date,
			   u.id, u.username, u.display_name, u.profile_picture
		FROM challenge_invitations i
		JOIN challenges c ON c.id = i.challenge_id
		JOIN users u ON u.id = i.sender_id
		WHERE i.receiver_id = $1 AND i.status = 'pending' AND c.end_date > NOW()
		ORDER BY i.sent_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	invitations := []models.InvitationView{}
	for rows.Next() {
		var view models.InvitationView
		var picture sql.NullString
		if err := rows.Scan(
			&view.InvitationID, &view.ChallengeID, &view.Title, &view.Emoji, &view.Category, &view.EndDate,
			&view.Sender.ID, &view.Sender.Username, &view.Sender.DisplayName, &picture,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		view.Sender.ProfilePicture = picture.String
		invitations = append(invitations, view)
	}
	return invitations, rows.Err()
}

// ListParticipants returns accepted invitees with their submission state.
// The creator is not included; callers fetch them separately.
func (r *ChallengeRepository) ListParticipants(challengeID string) ([]models.ParticipantView, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.profile_picture,
			   EXISTS(
				SELECT 1 FROM challenge_submissions s
				WHERE s.challenge_id = i.challenge_id AND s.user_id = u.id
			   ) AS has_submitted
		FROM challenge_invitations i
		JOIN users u ON u.id = i.receiver_id
		WHERE i.challenge_id = $1 AND i.status = 'accepted'
		ORDER BY u.username
	`
	rows, err := r.db.Query(query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := []models.ParticipantView{}
	for rows.Next() {
		var p models.ParticipantView
		var picture sql.NullString
		if err := rows.Scan(&p.ID, &p.Username, &p.DisplayName, &picture, &p.HasSubmitted); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.ProfilePicture = picture.String
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// ListParticipantIDs returns the user IDs of accepted invitees plus the
// creator, excluding excludeUserID. Used to fan out notifications.
func (r *ChallengeRepository) ListParticipantIDs(challengeID, excludeUserID string) ([]string, error) {
	query := `
		SELECT receiver_id FROM challenge_invitations
		WHERE challenge_id = $1 AND status = 'accepted' AND receiver_id != $2
		UNION
		SELECT creator_id FROM challenges
		WHERE id = $1 AND creator_id != $2
	`
	rows, err := r.db.Query(query, challengeID, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participant ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// EndingSoon returns active challenges ending within the window that haven't
// been reminded about yet.
func (r *ChallengeRepository) EndingSoon(within time.Duration) ([]models.Challenge, error) {
	query := `
		SELECT id, creator_id, title, description, emoji, category,
			   status, start_date, end_date, reminder_sent, created_at
		FROM challenges
		WHERE status = 'active' AND reminder_sent = FALSE
		  AND end_date > NOW() AND end_date <= NOW() + $1::interval
	`
	rows, err := r.db.Query(query, fmt.Sprintf("%d seconds", int(within.Seconds())))
	if err != nil {
		return nil, fmt.Errorf("failed to list ending challenges: %w", err)
	}
	defer rows.Close()

	challenges := []models.Challenge{}
	for rows.Next() {
		var challenge models.Challenge
		var description sql.NullString
		if err := rows.Scan(
			&challenge.ID, &challenge.CreatorID, &challenge.Title, &description,
			&challenge.Emoji, &challenge.Category, &challenge.Status,
			&challenge.StartDate, &challenge.EndDate, &challenge.ReminderSent, &challenge.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenge.Description = description.String
		challenges = append(challenges, challenge)
	}
	return challenges, rows.Err()
}

func (r *ChallengeRepository) MarkReminded(id string) error {
	result, err := r.db.Exec(`UPDATE challenges SET reminder_sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark challenge reminded: %w", err)
	}
	return requireRow(result, "challenge not found")
}

// CompleteExpired flips active challenges whose end date has passed to
// completed. Returns the number of challenges closed.
func (r *ChallengeRepository) CompleteExpired() (int64, error) {
	result, err := r.db.Exec(`UPDATE challenges SET status = 'completed' WHERE status = 'active' AND end_date <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to complete expired challenges: %w", err)
	}
	return result.RowsAffected()
}
