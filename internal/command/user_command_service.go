package command

import (
	"context"
	"fmt"
	"time"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
	"github.com/challengeer/challenge-service/internal/storage"
	"github.com/challengeer/challenge-service/internal/utils"
)

const (
	avatarSize    = 400
	avatarQuality = 85
)

// MediaUploader stores processed images and returns their public URL.
type MediaUploader interface {
	UploadJPEG(ctx context.Context, folder, identifier string, data []byte) (string, error)
}

// UserCommandService writes user state to PostgreSQL and keeps the Redis
// read model up to date.
type UserCommandService struct {
	writeRepo *repository.UserWriteRepository
	readRepo  *repository.UserReadRepository
	uploader  MediaUploader
}

func NewUserCommandService(
	writeRepo *repository.UserWriteRepository,
	readRepo *repository.UserReadRepository,
	uploader MediaUploader,
) *UserCommandService {
	return &UserCommandService{writeRepo: writeRepo, readRepo: readRepo, uploader: uploader}
}

// UpdateProfile applies a partial update; empty fields keep their current
// value.
func (s *UserCommandService) UpdateProfile(cmd cqrs.UpdateProfileCommand) (*models.ProfileView, error) {
	user, err := s.writeRepo.GetByID(cmd.UserID)
	if err != nil {
		return nil, err
	}
	if cmd.Username != "" {
		if !utils.ValidateUsername(cmd.Username) {
			return nil, fmt.Errorf("invalid username")
		}
		user.Username = cmd.Username
	}
	if cmd.DisplayName != "" {
		user.DisplayName = cmd.DisplayName
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.writeRepo.UpdateProfile(user); err != nil {
		return nil, err
	}

	// Drop the cached view; the next read warms it from PostgreSQL.
	s.readRepo.InvalidateUserView(context.Background(), user.ID)

	profile := user.Profile()
	return &profile, nil
}

// UploadAvatar processes the raw upload to a square JPEG, stores it, and
// points the profile at the new URL.
func (s *UserCommandService) UploadAvatar(cmd cqrs.UploadAvatarCommand) (*models.ProfileView, error) {
	user, err := s.writeRepo.GetByID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	processed, err := storage.ProcessImage(cmd.Image, avatarSize, avatarSize, avatarQuality)
	if err != nil {
		return nil, fmt.Errorf("invalid image")
	}

	url, err := s.uploader.UploadJPEG(context.Background(), "avatars", user.ID, processed)
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	user.ProfilePicture = url
	user.UpdatedAt = time.Now().UTC()
	if err := s.writeRepo.UpdateProfilePicture(user); err != nil {
		return nil, err
	}

	s.readRepo.InvalidateUserView(context.Background(), user.ID)

	profile := user.Profile()
	return &profile, nil
}
