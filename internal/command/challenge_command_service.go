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
	"github.com/challengeer/challenge-service/internal/storage"
	"github.com/challengeer/challenge-service/internal/utils"
)

const (
	challengeLifetime = 48 * time.Hour
	defaultEmoji      = "🎯"

	submissionWidth   = 1080
	submissionHeight  = 1920
	submissionQuality = 85
)

// MediaStore extends MediaUploader with deletion, needed when a challenge is
// torn down together with its stored photos.
type MediaStore interface {
	MediaUploader
	Delete(ctx context.Context, key string) error
}

// ChallengeCommandService handles the challenge lifecycle: creation, edits,
// deletion, invitations, and photo submissions.
type ChallengeCommandService struct {
	challengeRepo  *repository.ChallengeRepository
	submissionRepo *repository.SubmissionRepository
	userRepo       *repository.UserWriteRepository
	uploader       MediaStore
	publisher      *events.Publisher
}

func NewChallengeCommandService(
	challengeRepo *repository.ChallengeRepository,
	submissionRepo *repository.SubmissionRepository,
	userRepo *repository.UserWriteRepository,
	uploader MediaStore,
	publisher *events.Publisher,
) *ChallengeCommandService {
	return &ChallengeCommandService{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		uploader:       uploader,
		publisher:      publisher,
	}
}

func (s *ChallengeCommandService) CreateChallenge(cmd cqrs.CreateChallengeCommand) (*models.Challenge, error) {
	emoji := cmd.Emoji
	if emoji == "" {
		emoji = defaultEmoji
	}

	now := time.Now().UTC()
	challenge := &models.Challenge{
		ID:          utils.GenerateID("chl"),
		CreatorID:   cmd.CreatorID,
		Title:       cmd.Title,
		Description: cmd.Description,
		Emoji:       emoji,
		Category:    cmd.Category,
		Status:      models.ChallengeActive,
		StartDate:   now,
		EndDate:     now.Add(challengeLifetime),
		CreatedAt:   now,
	}
	if err := s.challengeRepo.Create(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// UpdateChallenge lets the creator change the title or description of an
// active challenge. Empty fields keep their current value.
func (s *ChallengeCommandService) UpdateChallenge(cmd cqrs.UpdateChallengeCommand) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(cmd.ChallengeID)
	if err != nil {
		return nil, err
	}
	if challenge.CreatorID != cmd.RequestingUserID {
		return nil, fmt.Errorf("forbidden")
	}
	if challenge.Status != models.ChallengeActive {
		return nil, fmt.Errorf("challenge is not active")
	}

	if cmd.Title != "" {
		challenge.Title = cmd.Title
	}
	if cmd.Description != "" {
		challenge.Description = cmd.Description
	}
	if err := s.challengeRepo.UpdateDetails(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// DeleteChallenge removes the challenge and everything hanging off it, then
// cleans the submitted photos out of object storage. Storage cleanup is
// best-effort: the rows are already gone.
func (s *ChallengeCommandService) DeleteChallenge(cmd cqrs.DeleteChallengeCommand) error {
	challenge, err := s.challengeRepo.GetByID(cmd.ChallengeID)
	if err != nil {
		return err
	}
	if challenge.CreatorID != cmd.RequestingUserID {
		return fmt.Errorf("forbidden")
	}

	photoURLs, err := s.submissionRepo.ListPhotoURLs(cmd.ChallengeID)
	if err != nil {
		return err
	}

	if err := s.challengeRepo.Delete(cmd.ChallengeID); err != nil {
		return err
	}

	for _, photoURL := range photoURLs {
		key := storage.ExtractKey(photoURL)
		if key == "" {
			continue
		}
		if err := s.uploader.Delete(context.Background(), key); err != nil {
			log.Printf("Failed to delete photo %s: %v", key, err)
		}
	}
	return nil
}

// Invite creates invitations for each receiver. Unknown receivers and
// duplicate invitations are skipped, matching the batch-tolerant contract of
// the mobile client. Returns the number of invitations actually sent.
func (s *ChallengeCommandService) Invite(cmd cqrs.InviteToChallengeCommand) (int, error) {
	challenge, err := s.challengeRepo.GetByID(cmd.ChallengeID)
	if err != nil {
		return 0, err
	}
	if challenge.CreatorID != cmd.SenderID {
		return 0, fmt.Errorf("forbidden")
	}
	if challenge.Status != models.ChallengeActive {
		return 0, fmt.Errorf("challenge is not active")
	}

	sender, err := s.userRepo.GetByID(cmd.SenderID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, receiverID := range cmd.ReceiverIDs {
		if receiverID == cmd.SenderID {
			continue
		}
		if _, err := s.userRepo.GetByID(receiverID); err != nil {
			continue
		}
		if exists, err := s.challengeRepo.HasInvitation(cmd.ChallengeID, receiverID); err != nil || exists {
			continue
		}

		invitation := &models.ChallengeInvitation{
			ID:          utils.GenerateID("inv"),
			ChallengeID: cmd.ChallengeID,
			SenderID:    cmd.SenderID,
			ReceiverID:  receiverID,
			Status:      models.InvitationPending,
			SentAt:      time.Now().UTC(),
		}
		if err := s.challengeRepo.CreateInvitation(invitation); err != nil {
			log.Printf("Failed to create invitation for %s: %v", receiverID, err)
			continue
		}
		sent++

		if err := s.publisher.Publish(context.Background(), events.ChallengeEventsStream, events.ChallengeInvited, events.ChallengeInvitedEvent{
			InvitationID:   invitation.ID,
			ChallengeID:    challenge.ID,
			ChallengeTitle: challenge.Title,
			SenderID:       sender.ID,
			SenderName:     sender.DisplayName,
			ReceiverID:     receiverID,
		}); err != nil {
			log.Printf("Failed to publish challenge.invited event: %v", err)
		}
	}
	return sent, nil
}

func (s *ChallengeCommandService) AcceptInvitation(cmd cqrs.AcceptInvitationCommand) (*models.ChallengeInvitation, error) {
	invitation, err := s.challengeRepo.GetInvitation(cmd.InvitationID)
	if err != nil {
		return nil, err
	}
	if invitation.ReceiverID != cmd.RequestingUserID {
		return nil, fmt.Errorf("forbidden")
	}
	if invitation.Status != models.InvitationPending {
		return nil, fmt.Errorf("invitation is not pending")
	}

	challenge, err := s.challengeRepo.GetByID(invitation.ChallengeID)
	if err != nil {
		return nil, err
	}
	if challenge.Status != models.ChallengeActive {
		return nil, fmt.Errorf("challenge is not active")
	}

	now := time.Now().UTC()
	if err := s.challengeRepo.UpdateInvitationStatus(invitation.ID, models.InvitationAccepted, now); err != nil {
		return nil, err
	}
	invitation.Status = models.InvitationAccepted
	invitation.RespondedAt = &now

	accepter, err := s.userRepo.GetByID(cmd.RequestingUserID)
	if err == nil {
		if err := s.publisher.Publish(context.Background(), events.ChallengeEventsStream, events.ChallengeInvitationAccepted, events.ChallengeInvitationAcceptedEvent{
			InvitationID:   invitation.ID,
			ChallengeID:    challenge.ID,
			ChallengeTitle: challenge.Title,
			AccepterID:     accepter.ID,
			AccepterName:   accepter.DisplayName,
			CreatorID:      challenge.CreatorID,
		}); err != nil {
			log.Printf("Failed to publish challenge.invitation.accepted event: %v", err)
		}
	}

	return invitation, nil
}

func (s *ChallengeCommandService) DeclineInvitation(cmd cqrs.DeclineInvitationCommand) (*models.ChallengeInvitation, error) {
	invitation, err := s.challengeRepo.GetInvitation(cmd.InvitationID)
	if err != nil {
		return nil, err
	}
	if invitation.ReceiverID != cmd.RequestingUserID {
		return nil, fmt.Errorf("forbidden")
	}
	if invitation.Status != models.InvitationPending {
		return nil, fmt.Errorf("invitation is not pending")
	}

	now := time.Now().UTC()
	if err := s.challengeRepo.UpdateInvitationStatus(invitation.ID, models.InvitationDeclined, now); err != nil {
		return nil, err
	}
	invitation.Status = models.InvitationDeclined
	invitation.RespondedAt = &now
	return invitation, nil
}

// SubmitPhoto enforces the one-submission rule, processes and stores the
// photo, then notifies the other participants.
func (s *ChallengeCommandService) SubmitPhoto(cmd cqrs.SubmitPhotoCommand) (*models.ChallengeSubmission, error) {
	challenge, err := s.challengeRepo.GetByID(cmd.ChallengeID)
	if err != nil {
		return nil, err
	}
	if challenge.Status != models.ChallengeActive {
		return nil, fmt.Errorf("challenge is not active")
	}

	participant, err := s.challengeRepo.IsParticipant(cmd.ChallengeID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if !participant {
		return nil, fmt.Errorf("forbidden")
	}

	submitted, err := s.submissionRepo.HasSubmitted(cmd.ChallengeID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if submitted {
		return nil, fmt.Errorf("already submitted")
	}

	processed, err := storage.ProcessImage(cmd.Image, submissionWidth, submissionHeight, submissionQuality)
	if err != nil {
		return nil, fmt.Errorf("invalid image")
	}
	photoURL, err := s.uploader.UploadJPEG(context.Background(),
		"challenge-submissions/"+cmd.ChallengeID, cmd.UserID, processed)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	submission := &models.ChallengeSubmission{
		ID:          utils.GenerateID("sub"),
		ChallengeID: cmd.ChallengeID,
		UserID:      cmd.UserID,
		PhotoURL:    photoURL,
		Caption:     cmd.Caption,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.submissionRepo.Create(submission); err != nil {
		return nil, err
	}

	submitter, err := s.userRepo.GetByID(cmd.UserID)
	if err != nil {
		return submission, nil
	}
	recipients, err := s.challengeRepo.ListParticipantIDs(cmd.ChallengeID, cmd.UserID)
	if err != nil {
		log.Printf("Failed to list notification recipients: %v", err)
		return submission, nil
	}
	if len(recipients) > 0 {
		if err := s.publisher.Publish(context.Background(), events.ChallengeEventsStream, events.ChallengeSubmissionCreated, events.ChallengeSubmissionCreatedEvent{
			SubmissionID:   submission.ID,
			ChallengeID:    challenge.ID,
			ChallengeTitle: challenge.Title,
			SubmitterID:    submitter.ID,
			SubmitterName:  submitter.DisplayName,
			RecipientIDs:   recipients,
		}); err != nil {
			log.Printf("Failed to publish challenge.submission.created event: %v", err)
		}
	}

	return submission, nil
}
