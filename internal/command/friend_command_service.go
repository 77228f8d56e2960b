package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/events"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
	"github.com/challengeer/challenge-service/internal/utils"
)

// FriendCommandService handles the friend-request lifecycle.
type FriendCommandService struct {
	friendRepo *repository.FriendRepository
	userRepo   *repository.UserWriteRepository
	publisher  *events.Publisher
}

func NewFriendCommandService(
	friendRepo *repository.FriendRepository,
	userRepo *repository.UserWriteRepository,
	publisher *events.Publisher,
) *FriendCommandService {
	return &FriendCommandService{friendRepo: friendRepo, userRepo: userRepo, publisher: publisher}
}

func (s *FriendCommandService) SendRequest(cmd cqrs.SendFriendRequestCommand) (*models.FriendRequest, error) {
	if cmd.SenderID == cmd.ReceiverID {
		return nil, fmt.Errorf("cannot send friend request to yourself")
	}

	sender, err := s.userRepo.GetByID(cmd.SenderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(cmd.ReceiverID); err != nil {
		return nil, fmt.Errorf("receiver not found")
	}

	exists, err := s.friendRepo.HasActiveRequest(cmd.SenderID, cmd.ReceiverID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("friend request already exists")
	}
	if friends, err := s.friendRepo.AreFriends(cmd.SenderID, cmd.ReceiverID); err != nil {
		return nil, err
	} else if friends {
		return nil, fmt.Errorf("already friends")
	}

	request := &models.FriendRequest{
		ID:         utils.GenerateID("frq"),
		SenderID:   cmd.SenderID,
		ReceiverID: cmd.ReceiverID,
		Status:     models.RequestPending,
		SentAt:     time.Now().UTC(),
	}
	if err := s.friendRepo.CreateRequest(request); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(context.Background(), events.SocialEventsStream, events.FriendRequestCreated, events.FriendRequestCreatedEvent{
		RequestID:  request.ID,
		SenderID:   sender.ID,
		SenderName: sender.DisplayName,
		ReceiverID: cmd.ReceiverID,
	}); err != nil {
		log.Printf("Failed to publish friend.request.created event: %v", err)
	}

	return request, nil
}

func (s *FriendCommandService) AcceptRequest(cmd cqrs.AcceptFriendRequestCommand) (*models.FriendRequest, error) {
	request, err := s.friendRepo.GetRequest(cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if request.ReceiverID != cmd.RequestingUserID {
		return nil, fmt.Errorf("forbidden")
	}
	if request.Status != models.RequestPending {
		return nil, fmt.Errorf("friend request is not pending")
	}

	now := time.Now().UTC()
	if err := s.friendRepo.UpdateRequestStatus(request.ID, models.RequestAccepted, now); err != nil {
		return nil, err
	}
	if err := s.friendRepo.CreateFriendship(&models.Friendship{
		ID:      utils.GenerateID("frs"),
		User1ID: request.SenderID,
		User2ID: request.ReceiverID,
		Since:   now,
	}); err != nil {
		return nil, err
	}

	request.Status = models.RequestAccepted
	request.RespondedAt = &now

	accepter, err := s.userRepo.GetByID(cmd.RequestingUserID)
	if err == nil {
		if err := s.publisher.Publish(context.Background(), events.SocialEventsStream, events.FriendRequestAccepted, events.FriendRequestAcceptedEvent{
			RequestID:    request.ID,
			AccepterID:   accepter.ID,
			AccepterName: accepter.DisplayName,
			SenderID:     request.SenderID,
		}); err != nil {
			log.Printf("Failed to publish friend.request.accepted event: %v", err)
		}
	}

	return request, nil
}

func (s *FriendCommandService) RejectRequest(cmd cqrs.RejectFriendRequestCommand) (*models.FriendRequest, error) {
	request, err := s.friendRepo.GetRequest(cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if request.ReceiverID != cmd.RequestingUserID {
		return nil, fmt.Errorf("forbidden")
	}
	if request.Status != models.RequestPending {
		return nil, fmt.Errorf("friend request is not pending")
	}

	now := time.Now().UTC()
	if err := s.friendRepo.UpdateRequestStatus(request.ID, models.RequestRejected, now); err != nil {
		return nil, err
	}
	request.Status = models.RequestRejected
	request.RespondedAt = &now
	return request, nil
}
