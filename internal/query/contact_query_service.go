package query

import (
	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
)

// ContactQueryService computes contact-graph friend recommendations.
type ContactQueryService struct {
	contactRepo *repository.ContactRepository
}

func NewContactQueryService(contactRepo *repository.ContactRepository) *ContactQueryService {
	return &ContactQueryService{contactRepo: contactRepo}
}

func (s *ContactQueryService) Recommendations(q cqrs.GetRecommendationsQuery) ([]models.RecommendationView, error) {
	return s.contactRepo.Recommendations(q.UserID)
}
