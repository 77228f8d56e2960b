package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/challengeer/challenge-service/internal/events"
)

// Notification payload types, mirrored by the mobile clients.
const (
	TypeFriendRequest       = "friend_request"
	TypeFriendAccept        = "friend_accept"
	TypeChallengeInvite     = "challenge_invite"
	TypeChallengeAccept     = "challenge_accept"
	TypeChallengeSubmission = "challenge_submission"
	TypeChallengeEnding     = "challenge_ending"
)

// DeviceTokenLister resolves a user's registered push tokens.
type DeviceTokenLister interface {
	ListTokensByUser(ctx context.Context, userID string) ([]string, error)
}

// Notifier consumes domain events and fans pushes out to every device of
// each recipient. Send failures are logged and swallowed; a lost push is not
// worth retrying the whole event for.
type Notifier struct {
	devices DeviceTokenLister
	sender  PushSender
}

func NewNotifier(devices DeviceTokenLister, sender PushSender) *Notifier {
	return &Notifier{devices: devices, sender: sender}
}

// HandleSocialEvent is the Redis stream subscriber handler for friend events.
func (n *Notifier) HandleSocialEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.FriendRequestCreated:
		var data events.FriendRequestCreatedEvent
		if err := events.DecodeData(event, &data); err != nil {
			return err
		}
		n.push(ctx, data.ReceiverID,
			"New Friend Request",
			fmt.Sprintf("%s sent you a friend request", data.SenderName),
			map[string]string{"type": TypeFriendRequest, "senderId": data.SenderID})

	case events.FriendRequestAccepted:
		var data events.FriendRequestAcceptedEvent
		if err := events.DecodeData(event, &data); err != nil {
			return err
		}
		n.push(ctx, data.SenderID,
			"Friend Request Accepted",
			fmt.Sprintf("%s accepted your friend request", data.AccepterName),
			map[string]string{"type": TypeFriendAccept, "userId": data.AccepterID})
	}
	return nil
}

// HandleChallengeEvent is the Redis stream subscriber handler for challenge
// events.
func (n *Notifier) HandleChallengeEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.ChallengeInvited:
		var data events.ChallengeInvitedEvent
		if err := events.DecodeData(event, &data); err != nil {
			return err
		}
		n.push(ctx, data.ReceiverID,
			"New Challenge Invitation!",
			fmt.Sprintf("%s invited you to '%s'", data.SenderName, data.ChallengeTitle),
			map[string]string{
				"type":         TypeChallengeInvite,
				"challengeId":  data.ChallengeID,
				"invitationId": data.InvitationID,
			})

	case events.ChallengeInvitationAccepted:
		var data events.ChallengeInvitationAcceptedEvent
		if err := events.DecodeData(event, &data); err != nil {
			return err
		}
		n.push(ctx, data.CreatorID,
			"Challenge Accepted!",
			fmt.Sprintf("%s joined '%s'", data.AccepterName, data.ChallengeTitle),
			map[string]string{"type": TypeChallengeAccept, "challengeId": data.ChallengeID})

	case events.ChallengeSubmissionCreated:
		var data events.ChallengeSubmissionCreatedEvent
		if err := events.DecodeData(event, &data); err != nil {
			return err
		}
		for _, recipientID := range data.RecipientIDs {
			n.push(ctx, recipientID,
				"New Challenge Submission!",
				fmt.Sprintf("%s submitted to '%s'", data.SubmitterName, data.ChallengeTitle),
				map[string]string{"type": TypeChallengeSubmission, "challengeId": data.ChallengeID})
		}

	case events.ChallengeEndingSoon:
		var data events.ChallengeEndingSoonEvent
		if err := events.DecodeData(event, &data); err != nil {
			return err
		}
		for _, recipientID := range data.RecipientIDs {
			n.push(ctx, recipientID,
				"Challenge Ending Soon!",
				fmt.Sprintf("'%s' ends in %d hours", data.ChallengeTitle, data.HoursLeft),
				map[string]string{"type": TypeChallengeEnding, "challengeId": data.ChallengeID})
		}
	}
	return nil
}

func (n *Notifier) push(ctx context.Context, userID, title, body string, data map[string]string) {
	tokens, err := n.devices.ListTokensByUser(ctx, userID)
	if err != nil {
		log.Printf("Failed to list device tokens for %s: %v", userID, err)
		return
	}
	for _, fcmToken := range tokens {
		if err := n.sender.Send(ctx, fcmToken, title, body, data); err != nil {
			log.Printf("Failed to push to user %s: %v", userID, err)
		}
	}
}
