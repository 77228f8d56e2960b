package query

import (
	"context"
	"fmt"
	"time"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
)

// ChallengeQueryService serves the challenge read side: list, detail, and
// submission feeds.
type ChallengeQueryService struct {
	challengeRepo  *repository.ChallengeRepository
	submissionRepo *repository.SubmissionRepository
	userReadRepo   *repository.UserReadRepository
}

func NewChallengeQueryService(
	challengeRepo *repository.ChallengeRepository,
	submissionRepo *repository.SubmissionRepository,
	userReadRepo *repository.UserReadRepository,
) *ChallengeQueryService {
	return &ChallengeQueryService{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		userReadRepo:   userReadRepo,
	}
}

// ListChallenges bundles everything the home screen shows: the user's own
// running challenges, ones they participate in, and pending invitations.
func (s *ChallengeQueryService) ListChallenges(q cqrs.ListChallengesQuery) (*models.ChallengeListView, error) {
	owned, err := s.challengeRepo.ListOwnedActive(q.UserID)
	if err != nil {
		return nil, err
	}
	participating, err := s.challengeRepo.ListParticipatingActive(q.UserID)
	if err != nil {
		return nil, err
	}
	invitations, err := s.challengeRepo.ListPendingInvitations(q.UserID)
	if err != nil {
		return nil, err
	}
	return &models.ChallengeListView{
		Owned:         owned,
		Participating: participating,
		Invitations:   invitations,
	}, nil
}

// GetChallenge returns the detail view. Any authenticated user who is the
// creator, a participant, or an invitee may look; everyone else is refused.
func (s *ChallengeQueryService) GetChallenge(q cqrs.GetChallengeQuery) (*models.ChallengeDetailView, error) {
	challenge, err := s.challengeRepo.GetByID(q.ChallengeID)
	if err != nil {
		return nil, err
	}

	participants, err := s.challengeRepo.ListParticipants(q.ChallengeID)
	if err != nil {
		return nil, err
	}

	userStatus, invitationID, err := s.resolveUserStatus(challenge, participants, q.RequestingUserID)
	if err != nil {
		return nil, err
	}

	creatorSubmitted, err := s.submissionRepo.HasSubmitted(q.ChallengeID, challenge.CreatorID)
	if err != nil {
		return nil, err
	}
	creatorView, err := s.userReadRepo.GetView(context.Background(), challenge.CreatorID)
	if err != nil {
		return nil, err
	}

	hasNew, err := s.submissionRepo.HasNew(q.ChallengeID, q.RequestingUserID)
	if err != nil {
		return nil, err
	}

	return &models.ChallengeDetailView{
		Challenge: *challenge,
		Creator: models.ParticipantView{
			UserView:     *creatorView,
			HasSubmitted: creatorSubmitted,
		},
		Participants:      participants,
		HasNewSubmissions: hasNew,
		UserStatus:        userStatus,
		InvitationID:      invitationID,
	}, nil
}

func (s *ChallengeQueryService) resolveUserStatus(
	challenge *models.Challenge,
	participants []models.ParticipantView,
	userID string,
) (models.UserChallengeStatus, string, error) {
	if challenge.CreatorID == userID {
		submitted, err := s.submissionRepo.HasSubmitted(challenge.ID, userID)
		if err != nil {
			return "", "", err
		}
		if submitted {
			return models.StatusSubmitted, "", nil
		}
		return models.StatusParticipant, "", nil
	}

	for _, p := range participants {
		if p.ID == userID {
			if p.HasSubmitted {
				return models.StatusSubmitted, "", nil
			}
			return models.StatusParticipant, "", nil
		}
	}

	// Not a participant: only a pending invitee may see the challenge.
	invitations, err := s.challengeRepo.ListPendingInvitations(userID)
	if err != nil {
		return "", "", err
	}
	for _, inv := range invitations {
		if inv.ChallengeID == challenge.ID {
			return models.StatusInvited, inv.InvitationID, nil
		}
	}
	return "", "", fmt.Errorf("forbidden")
}

// ListSubmissions returns the challenge feed. The caller must have submitted
// their own photo first; fresh submissions are marked viewed as a side
// effect so has-new flags settle.
func (s *ChallengeQueryService) ListSubmissions(q cqrs.ListSubmissionsQuery) ([]models.SubmissionView, error) {
	if _, err := s.challengeRepo.GetByID(q.ChallengeID); err != nil {
		return nil, err
	}

	participant, err := s.challengeRepo.IsParticipant(q.ChallengeID, q.RequestingUserID)
	if err != nil {
		return nil, err
	}
	if !participant {
		return nil, fmt.Errorf("forbidden")
	}

	submitted, err := s.submissionRepo.HasSubmitted(q.ChallengeID, q.RequestingUserID)
	if err != nil {
		return nil, err
	}
	if !submitted {
		return nil, fmt.Errorf("submission required")
	}

	submissions, err := s.submissionRepo.ListWithUsers(q.ChallengeID, q.RequestingUserID)
	if err != nil {
		return nil, err
	}

	var newlySeen []string
	for _, sub := range submissions {
		if sub.IsNew {
			newlySeen = append(newlySeen, sub.ID)
		}
	}
	if err := s.submissionRepo.MarkViewed(q.RequestingUserID, newlySeen, time.Now().UTC()); err != nil {
		return nil, err
	}

	return submissions, nil
}

func (s *ChallengeQueryService) HasNewSubmissions(q cqrs.HasNewSubmissionsQuery) (bool, error) {
	participant, err := s.challengeRepo.IsParticipant(q.ChallengeID, q.RequestingUserID)
	if err != nil {
		return false, err
	}
	if !participant {
		return false, fmt.Errorf("forbidden")
	}
	return s.submissionRepo.HasNew(q.ChallengeID, q.RequestingUserID)
}
