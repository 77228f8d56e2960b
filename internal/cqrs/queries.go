package cqrs

// ---------- User queries ----------

// GetUserQuery fetches a user's public profile.
type GetUserQuery struct {
	UserID string
}

// GetProfileQuery fetches the caller's own full profile.
type GetProfileQuery struct {
	UserID string
}

// SearchUsersQuery matches usernames and display names, paginated.
type SearchUsersQuery struct {
	Query string
	Skip  int
	Limit int
}

// CheckUsernameQuery tests handle availability.
type CheckUsernameQuery struct {
	Username string
}

// ---------- Friend queries ----------

// ListFriendsQuery fetches all confirmed friends of a user.
type ListFriendsQuery struct {
	UserID string
}

// ListFriendRequestsQuery fetches incoming pending requests.
type ListFriendRequestsQuery struct {
	UserID string
}

// ---------- Contact queries ----------

// GetRecommendationsQuery computes contact-graph friend suggestions.
type GetRecommendationsQuery struct {
	UserID string
}

// ---------- Challenge queries ----------

// ListChallengesQuery fetches the home-screen bundle: owned, participating,
// and pending invitations.
type ListChallengesQuery struct {
	UserID string
}

// GetChallengeQuery fetches full challenge details for a participant.
type GetChallengeQuery struct {
	ChallengeID      string
	RequestingUserID string
}

// ListSubmissionsQuery fetches a challenge's submissions; gated on the
// requesting user having submitted.
type ListSubmissionsQuery struct {
	ChallengeID      string
	RequestingUserID string
}

// HasNewSubmissionsQuery checks for submissions the user hasn't seen.
type HasNewSubmissionsQuery struct {
	ChallengeID      string
	RequestingUserID string
}
