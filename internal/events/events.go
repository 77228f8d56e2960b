package events

import "time"

// Event types
const (
	FriendRequestCreated  = "friend.request.created"
	FriendRequestAccepted = "friend.request.accepted"

	ChallengeInvited            = "challenge.invited"
	ChallengeInvitationAccepted = "challenge.invitation.accepted"
	ChallengeSubmissionCreated  = "challenge.submission.created"
	ChallengeEndingSoon         = "challenge.ending.soon"
)

// Stream names
const (
	SocialEventsStream    = "social.events"
	ChallengeEventsStream = "challenge.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Social events

type FriendRequestCreatedEvent struct {
	RequestID  string `json:"requestId"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	ReceiverID string `json:"receiverId"`
}

type FriendRequestAcceptedEvent struct {
	RequestID    string `json:"requestId"`
	AccepterID   string `json:"accepterId"`
	AccepterName string `json:"accepterName"`
	SenderID     string `json:"senderId"`
}

// Challenge events

type ChallengeInvitedEvent struct {
	InvitationID   string `json:"invitationId"`
	ChallengeID    string `json:"challengeId"`
	ChallengeTitle string `json:"challengeTitle"`
	SenderID       string `json:"senderId"`
	SenderName     string `json:"senderName"`
	ReceiverID     string `json:"receiverId"`
}

type ChallengeInvitationAcceptedEvent struct {
	InvitationID   string `json:"invitationId"`
	ChallengeID    string `json:"challengeId"`
	ChallengeTitle string `json:"challengeTitle"`
	AccepterID     string `json:"accepterId"`
	AccepterName   string `json:"accepterName"`
	CreatorID      string `json:"creatorId"`
}

type ChallengeSubmissionCreatedEvent struct {
	SubmissionID   string   `json:"submissionId"`
	ChallengeID    string   `json:"challengeId"`
	ChallengeTitle string   `json:"challengeTitle"`
	SubmitterID    string   `json:"submitterId"`
	SubmitterName  string   `json:"submitterName"`
	RecipientIDs   []string `json:"recipientIds"`
}

type ChallengeEndingSoonEvent struct {
	ChallengeID    string   `json:"challengeId"`
	ChallengeTitle string   `json:"challengeTitle"`
	HoursLeft      int      `json:"hoursLeft"`
	RecipientIDs   []string `json:"recipientIds"`
}
