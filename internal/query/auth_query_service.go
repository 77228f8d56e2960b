package query

import (
	"fmt"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
	"github.com/challengeer/challenge-service/internal/token"
	"github.com/challengeer/challenge-service/internal/utils"
)

// AuthQueryService handles login and token refresh. These operations don't
// mutate application state, so no CommandService is involved.
type AuthQueryService struct {
	userRepo *repository.UserWriteRepository
}

func NewAuthQueryService(userRepo *repository.UserWriteRepository) *AuthQueryService {
	return &AuthQueryService{userRepo: userRepo}
}

func (s *AuthQueryService) Login(cmd cqrs.LoginCommand) (*models.AuthView, error) {
	user, err := s.userRepo.GetByEmail(cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	// Google-only accounts have no password hash and cannot password-login.
	if user.PasswordHash == "" || !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials")
	}
	return s.authView(user)
}

func (s *AuthQueryService) RefreshToken(cmd cqrs.RefreshTokenCommand) (*models.AuthView, error) {
	claims, err := token.ParseOfType(cmd.RefreshToken, token.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}
	return s.authView(user)
}

func (s *AuthQueryService) authView(user *models.User) (*models.AuthView, error) {
	pair, err := token.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthView{
		User:         user.Profile(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
