package models

import "time"

// UserView is the public projection of a user. It never exposes email, phone
// number, or credential material.
type UserView struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"displayName"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// ProfileView is the owner-facing projection of a user, returned only to the
// authenticated user themselves.
type ProfileView struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"displayName"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdTimestamp"`
	UpdatedAt      time.Time `json:"updatedTimestamp"`
}

// FriendRequestView is an incoming friend request joined with the sender's
// public profile.
type FriendRequestView struct {
	RequestID string              `json:"requestId"`
	Sender    UserView            `json:"sender"`
	Status    FriendRequestStatus `json:"status"`
	SentAt    time.Time           `json:"sentTimestamp"`
}

// RecommendationView is a contact-graph friend suggestion.
type RecommendationView struct {
	UserView
	MutualContacts int `json:"mutualContacts"`
}

// ChallengeSummaryView is the list-screen projection of a challenge.
type ChallengeSummaryView struct {
	ChallengeID       string    `json:"challengeId"`
	Title             string    `json:"title"`
	Emoji             string    `json:"emoji"`
	Category          string    `json:"category"`
	EndDate           time.Time `json:"endDate"`
	HasNewSubmissions bool      `json:"hasNewSubmissions"`
}

// InvitationView is a pending invitation joined with challenge info and the
// sender's public profile.
type InvitationView struct {
	InvitationID string    `json:"invitationId"`
	ChallengeID  string    `json:"challengeId"`
	Title        string    `json:"title"`
	Emoji        string    `json:"emoji"`
	Category     string    `json:"category"`
	EndDate      time.Time `json:"endDate"`
	Sender       UserView  `json:"sender"`
}

// ChallengeListView groups everything the home screen needs in one response.
type ChallengeListView struct {
	Owned         []ChallengeSummaryView `json:"ownedChallenges"`
	Participating []ChallengeSummaryView `json:"participatingChallenges"`
	Invitations   []InvitationView       `json:"invitations"`
}

// ParticipantView is a challenge participant with their submission state.
type ParticipantView struct {
	UserView
	HasSubmitted bool `json:"hasSubmitted"`
}

// UserChallengeStatus describes the requesting user's relationship to a
// challenge.
type UserChallengeStatus string

const (
	StatusParticipant UserChallengeStatus = "participant"
	StatusInvited     UserChallengeStatus = "invited"
	StatusSubmitted   UserChallengeStatus = "submitted"
)

// ChallengeDetailView is the full detail-screen projection of a challenge.
type ChallengeDetailView struct {
	Challenge
	Creator           ParticipantView     `json:"creator"`
	Participants      []ParticipantView   `json:"participants"`
	HasNewSubmissions bool                `json:"hasNewSubmissions"`
	UserStatus        UserChallengeStatus `json:"userStatus"`
	InvitationID      string              `json:"invitationId,omitempty"`
}

// SubmissionView is a submission joined with its author; IsNew is true the
// first time the requesting user sees it.
type SubmissionView struct {
	ChallengeSubmission
	User  UserView `json:"user"`
	IsNew bool     `json:"isNew"`
}

// AuthView is the login/registration response: the user plus a token pair.
type AuthView struct {
	User         ProfileView `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}
