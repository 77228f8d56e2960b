package cqrs

type RegisterUserCommand struct {
	Username    string
	DisplayName string
	Email       string
	PhoneNumber string
	Password    string
}

type LoginCommand struct {
	Email    string
	Password string
}

type GoogleLoginCommand struct {
	IDToken string
}

type RefreshTokenCommand struct {
	RefreshToken string
}

type UpdateProfileCommand struct {
	UserID      string
	Username    string
	DisplayName string
}

type UploadAvatarCommand struct {
	UserID string
	Image  []byte
}

type SendFriendRequestCommand struct {
	SenderID   string
	ReceiverID string
}

type AcceptFriendRequestCommand struct {
	RequestID        string
	RequestingUserID string
}

type RejectFriendRequestCommand struct {
	RequestID        string
	RequestingUserID string
}

type ContactEntry struct {
	ContactName string
	PhoneNumber string
}

type ReplaceContactsCommand struct {
	UserID   string
	Contacts []ContactEntry
}

type CreateVerificationCodeCommand struct {
	PhoneNumber string
}

type VerifyCodeCommand struct {
	PhoneNumber string
	Code        string
}

type RegisterDeviceCommand struct {
	UserID    string
	FCMToken  string
	Brand     string
	Model     string
	OSName    string
	OSVersion string
}

type RemoveDeviceCommand struct {
	DeviceID         string
	RequestingUserID string
}

type CreateChallengeCommand struct {
	CreatorID   string
	Title       string
	Description string
	Emoji       string
	Category    string
}

type UpdateChallengeCommand struct {
	ChallengeID      string
	RequestingUserID string
	Title            string
	Description      string
}

type DeleteChallengeCommand struct {
	ChallengeID      string
	RequestingUserID string
}

type InviteToChallengeCommand struct {
	ChallengeID string
	SenderID    string
	ReceiverIDs []string
}

type AcceptInvitationCommand struct {
	InvitationID     string
	RequestingUserID string
}

type DeclineInvitationCommand struct {
	InvitationID     string
	RequestingUserID string
}

type SubmitPhotoCommand struct {
	ChallengeID string
	UserID      string
	Caption     string
	Image       []byte
}
