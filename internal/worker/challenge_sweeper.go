package worker

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/challengeer/challenge-service/internal/events"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
)

const (
	sweepInterval = time.Minute
	reminderLead  = 6 * time.Hour
)

// ChallengeSweeper periodically completes expired challenges and publishes an
// ending-soon reminder once per challenge when the deadline approaches.
type ChallengeSweeper struct {
	challengeRepo *repository.ChallengeRepository
	publisher     *events.Publisher
}

func NewChallengeSweeper(challengeRepo *repository.ChallengeRepository, publisher *events.Publisher) *ChallengeSweeper {
	return &ChallengeSweeper{
		challengeRepo: challengeRepo,
		publisher:     publisher,
	}
}

// Run blocks until the context is cancelled, sweeping once per interval.
func (w *ChallengeSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	log.Printf("Challenge sweeper started (interval %s, reminder lead %s)", sweepInterval, reminderLead)
	for {
		select {
		case <-ctx.Done():
			log.Println("Challenge sweeper stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ChallengeSweeper) sweep(ctx context.Context) {
	completed, err := w.challengeRepo.CompleteExpired()
	if err != nil {
		log.Printf("Failed to complete expired challenges: %v", err)
	} else if completed > 0 {
		log.Printf("Completed %d expired challenges", completed)
	}

	ending, err := w.challengeRepo.EndingSoon(reminderLead)
	if err != nil {
		log.Printf("Failed to query ending challenges: %v", err)
		return
	}
	for _, challenge := range ending {
		w.remind(ctx, challenge)
	}
}

func (w *ChallengeSweeper) remind(ctx context.Context, challenge models.Challenge) {
	recipients, err := w.challengeRepo.ListParticipantIDs(challenge.ID, "")
	if err != nil {
		log.Printf("Failed to list participants for %s: %v", challenge.ID, err)
		return
	}

	if len(recipients) > 0 {
		hoursLeft := int(math.Ceil(time.Until(challenge.EndDate).Hours()))
		if hoursLeft < 1 {
			hoursLeft = 1
		}
		if err := w.publisher.Publish(ctx, events.ChallengeEventsStream, events.ChallengeEndingSoon, events.ChallengeEndingSoonEvent{
			ChallengeID:    challenge.ID,
			ChallengeTitle: challenge.Title,
			HoursLeft:      hoursLeft,
			RecipientIDs:   recipients,
		}); err != nil {
			log.Printf("Failed to publish challenge.ending.soon event: %v", err)
			return
		}
	}

	// Mark even when nobody is left to notify so the challenge is not
	// re-examined every sweep.
	if err := w.challengeRepo.MarkReminded(challenge.ID); err != nil {
		log.Printf("Failed to mark challenge %s reminded: %v", challenge.ID, err)
	}
}
