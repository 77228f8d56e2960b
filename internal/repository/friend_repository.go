package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/challengeer/challenge-service/internal/models"
)

// FriendRepository stores friend requests and confirmed friendships.
type FriendRepository struct {
	db *sql.DB
}

func NewFriendRepository(db *sql.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func (r *FriendRepository) CreateRequest(req *models.FriendRequest) error {
	query := `
		INSERT INTO friend_requests (id, sender_id, receiver_id, status, sent_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query, req.ID, req.SenderID, req.ReceiverID, req.Status, req.SentAt)
	if err != nil {
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	return nil
}

func (r *FriendRepository) GetRequest(id string) (*models.FriendRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, status, sent_at, responded_at
		FROM friend_requests
		WHERE id = $1
	`
	var req models.FriendRequest
	var respondedAt sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.SentAt, &respondedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("friend request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friend request: %w", err)
	}
	if respondedAt.Valid {
		req.RespondedAt = &respondedAt.Time
	}
	return &req, nil
}

func (r *FriendRepository) UpdateRequestStatus(id string, status models.FriendRequestStatus, respondedAt time.Time) error {
	query := `UPDATE friend_requests SET status = $2, responded_at = $3 WHERE id = $1`
	result, err := r.db.Exec(query, id, status, respondedAt)
	if err != nil {
		return fmt.Errorf("failed to update friend request: %w", err)
	}
	return requireRow(result, "friend request not found")
}

// HasActiveRequest reports whether a non-rejected request from sender to
// receiver already exists. A rejected request may be re-sent.
func (r *FriendRepository) HasActiveRequest(senderID, receiverID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE sender_id = $1 AND receiver_id = $2 AND status != 'rejected'
		)
	`
	var exists bool
	if err := r.db.QueryRow(query, senderID, receiverID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check friend request: %w", err)
	}
	return exists, nil
}

func (r *FriendRepository) CreateFriendship(f *models.Friendship) error {
	query := `INSERT INTO friendships (id, user1_id, user2_id, since) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(query, f.ID, f.User1ID, f.User2ID, f.Since)
	if err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

func (r *FriendRepository) AreFriends(userA, userB string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)
		)
	`
	var exists bool
	if err := r.db.QueryRow(query, userA, userB).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

// ListFriends returns the public profiles of everyone the user is friends
// with, regardless of which side of the friendship row they sit on.
func (r *FriendRepository) ListFriends(userID string) ([]models.UserView, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.profile_picture
		FROM users u
		JOIN friendships f
		  ON (f.user2_id = u.id AND f.user1_id = $1)
		  OR (f.user1_id = u.id AND f.user2_id = $1)
		ORDER BY u.username
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []models.UserView{}
	for rows.Next() {
		var view models.UserView
		var picture sql.NullString
		if err := rows.Scan(&view.ID, &view.Username, &view.DisplayName, &picture); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		view.ProfilePicture = picture.String
		friends = append(friends, view)
	}
	return friends, rows.Err()
}

// ListIncomingPending returns pending requests addressed to the user, joined
// with each sender's public profile.
func (r *FriendRepository) ListIncomingPending(userID string) ([]models.FriendRequestView, error) {
	query := `
		SELECT fr.id, fr.status, fr.sent_at, u.id, u.username, u.display_name, u.profile_picture
		FROM friend_requests fr
		JOIN users u ON u.id = fr.sender_id
		WHERE fr.receiver_id = $1 AND fr.status = 'pending'
		ORDER BY fr.sent_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	defer rows.Close()

	requests := []models.FriendRequestView{}
	for rows.Next() {
		var view models.FriendRequestView
		var picture sql.NullString
		if err := rows.Scan(
			&view.RequestID, &view.Status, &view.SentAt,
			&view.Sender.ID, &view.Sender.Username, &view.Sender.DisplayName, &picture,
		); err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		view.Sender.ProfilePicture = picture.String
		requests = append(requests, view)
	}
	return requests, rows.Err()
}
