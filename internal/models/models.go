package models

import "time"

type FriendRequestStatus string

const (
	RequestPending  FriendRequestStatus = "pending"
	RequestAccepted FriendRequestStatus = "accepted"
	RequestRejected FriendRequestStatus = "rejected"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"
	ChallengeCancelled ChallengeStatus = "cancelled"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"displayName"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber"`
	PasswordHash   string    `json:"-"`
	GoogleID       string    `json:"-"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdTimestamp"`
	UpdatedAt      time.Time `json:"updatedTimestamp"`
}

type FriendRequest struct {
	ID          string              `json:"id"`
	SenderID    string              `json:"senderId"`
	ReceiverID  string              `json:"receiverId"`
	Status      FriendRequestStatus `json:"status"`
	SentAt      time.Time           `json:"sentTimestamp"`
	RespondedAt *time.Time          `json:"respondedTimestamp,omitempty"`
}

type Friendship struct {
	ID      string    `json:"id"`
	User1ID string    `json:"-"`
	User2ID string    `json:"-"`
	Since   time.Time `json:"since"`
}

type Contact struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	ContactName string    `json:"contactName"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdTimestamp"`
}

// VerificationCode is keyed by phone number; a new code for the same number
// overwrites the previous one.
type VerificationCode struct {
	PhoneNumber string    `json:"phoneNumber"`
	Code        string    `json:"-"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdTimestamp"`
	ExpiresAt   time.Time `json:"expiresTimestamp"`
}

type Device struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	FCMToken  string    `json:"-"`
	Brand     string    `json:"brand,omitempty"`
	Model     string    `json:"model,omitempty"`
	OSName    string    `json:"osName,omitempty"`
	OSVersion string    `json:"osVersion,omitempty"`
	CreatedAt time.Time `json:"createdTimestamp"`
}

type Challenge struct {
	ID           string          `json:"id"`
	CreatorID    string          `json:"creatorId"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Emoji        string          `json:"emoji"`
	Category     string          `json:"category"`
	Status       ChallengeStatus `json:"status"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	ReminderSent bool            `json:"-"`
	CreatedAt    time.Time       `json:"createdTimestamp"`
}

type ChallengeInvitation struct {
	ID          string           `json:"id"`
	ChallengeID string           `json:"challengeId"`
	SenderID    string           `json:"senderId"`
	ReceiverID  string           `json:"receiverId"`
	Status      InvitationStatus `json:"status"`
	SentAt      time.Time        `json:"sentTimestamp"`
	RespondedAt *time.Time       `json:"respondedTimestamp,omitempty"`
}

type ChallengeSubmission struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challengeId"`
	UserID      string    `json:"userId"`
	PhotoURL    string    `json:"photoUrl"`
	Caption     string    `json:"caption,omitempty"`
	SubmittedAt time.Time `json:"submittedTimestamp"`
}
