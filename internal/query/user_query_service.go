package query

import (
	"context"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
	"github.com/challengeer/challenge-service/internal/utils"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// UserQueryService serves user profile reads from the Redis-backed read
// repository.
type UserQueryService struct {
	readRepo  *repository.UserReadRepository
	writeRepo *repository.UserWriteRepository
}

func NewUserQueryService(readRepo *repository.UserReadRepository, writeRepo *repository.UserWriteRepository) *UserQueryService {
	return &UserQueryService{readRepo: readRepo, writeRepo: writeRepo}
}

func (s *UserQueryService) GetUser(q cqrs.GetUserQuery) (*models.UserView, error) {
	return s.readRepo.GetView(context.Background(), q.UserID)
}

// GetProfile returns the full owner-facing profile; only ever called with
// the authenticated user's own ID.
func (s *UserQueryService) GetProfile(q cqrs.GetProfileQuery) (*models.ProfileView, error) {
	user, err := s.writeRepo.GetByID(q.UserID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *UserQueryService) SearchUsers(q cqrs.SearchUsersQuery) ([]models.UserView, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}
	return s.readRepo.Search(q.Query, skip, limit)
}

// CheckUsername reports whether the handle is valid and unclaimed.
func (s *UserQueryService) CheckUsername(q cqrs.CheckUsernameQuery) (bool, error) {
	if !utils.ValidateUsername(q.Username) {
		return false, nil
	}
	taken, err := s.writeRepo.UsernameExists(q.Username)
	if err != nil {
		return false, err
	}
	return !taken, nil
}
