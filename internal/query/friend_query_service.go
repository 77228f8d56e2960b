package query

import (
	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
)

// FriendQueryService serves friend lists and incoming requests.
type FriendQueryService struct {
	friendRepo *repository.FriendRepository
}

func NewFriendQueryService(friendRepo *repository.FriendRepository) *FriendQueryService {
	return &FriendQueryService{friendRepo: friendRepo}
}

func (s *FriendQueryService) ListFriends(q cqrs.ListFriendsQuery) ([]models.UserView, error) {
	return s.friendRepo.ListFriends(q.UserID)
}

func (s *FriendQueryService) ListRequests(q cqrs.ListFriendRequestsQuery) ([]models.FriendRequestView, error) {
	return s.friendRepo.ListIncomingPending(q.UserID)
}
