package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/googleauth"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/token"
	"github.com/challengeer/challenge-service/internal/utils"
)

// UserAccountStore is the slice of the user write store the auth service
// needs.
type UserAccountStore interface {
	Create(user *models.User) error
	GetByGoogle(googleID, email string) (*models.User, error)
	LinkGoogle(userID, googleID, email string) error
}

// UserViewCacher refreshes the Redis read model after account writes.
type UserViewCacher interface {
	CacheUserView(ctx context.Context, view *models.UserView)
}

// AuthCommandService handles the mutating side of authentication:
// registration and Google sign-in (which may create or link an account).
type AuthCommandService struct {
	userRepo UserAccountStore
	readRepo UserViewCacher
	google   googleauth.Verifier
}

func NewAuthCommandService(
	userRepo UserAccountStore,
	readRepo UserViewCacher,
	google googleauth.Verifier,
) *AuthCommandService {
	return &AuthCommandService{userRepo: userRepo, readRepo: readRepo, google: google}
}

func (s *AuthCommandService) Register(cmd cqrs.RegisterUserCommand) (*models.AuthView, error) {
	if !utils.ValidateUsername(cmd.Username) {
		return nil, fmt.Errorf("invalid username")
	}

	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Username:     cmd.Username,
		DisplayName:  cmd.DisplayName,
		Email:        strings.ToLower(cmd.Email),
		PhoneNumber:  cmd.PhoneNumber,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	view := user.View()
	s.readRepo.CacheUserView(context.Background(), &view)

	return s.authView(user)
}

// GoogleLogin verifies the ID token, then finds the matching account (by
// linked Google ID or email) or creates a fresh one.
func (s *AuthCommandService) GoogleLogin(cmd cqrs.GoogleLoginCommand) (*models.AuthView, error) {
	identity, err := s.google.Verify(context.Background(), cmd.IDToken)
	if err != nil {
		return nil, fmt.Errorf("invalid google token")
	}

	user, err := s.userRepo.GetByGoogle(identity.Subject, identity.Email)
	if err != nil {
		// Only a missing account means first sign-in; a lookup failure must
		// not fall through to account creation.
		if err.Error() != "user not found" {
			return nil, err
		}
		// First sign-in: create the account with a placeholder handle the
		// client prompts the user to change.
		now := time.Now().UTC()
		user = &models.User{
			ID:             utils.GenerateID("usr"),
			Username:       "google_" + identity.Subject,
			DisplayName:    identity.Name,
			Email:          strings.ToLower(identity.Email),
			GoogleID:       identity.Subject,
			ProfilePicture: identity.Picture,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
		view := user.View()
		s.readRepo.CacheUserView(context.Background(), &view)
	} else if user.GoogleID == "" {
		if err := s.userRepo.LinkGoogle(user.ID, identity.Subject, identity.Email); err != nil {
			return nil, err
		}
		user.GoogleID = identity.Subject
	}

	return s.authView(user)
}

func (s *AuthCommandService) authView(user *models.User) (*models.AuthView, error) {
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
