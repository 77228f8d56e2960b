package command

import (
	"time"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
	"github.com/challengeer/challenge-service/internal/utils"
)

// ContactCommandService replaces address-book snapshots.
type ContactCommandService struct {
	contactRepo *repository.ContactRepository
}

func NewContactCommandService(contactRepo *repository.ContactRepository) *ContactCommandService {
	return &ContactCommandService{contactRepo: contactRepo}
}

func (s *ContactCommandService) ReplaceContacts(cmd cqrs.ReplaceContactsCommand) error {
	now := time.Now().UTC()
	contacts := make([]models.Contact, 0, len(cmd.Contacts))
	for _, entry := range cmd.Contacts {
		contacts = append(contacts, models.Contact{
			ID:          utils.GenerateID("ctt"),
			UserID:      cmd.UserID,
			ContactName: entry.ContactName,
			PhoneNumber: entry.PhoneNumber,
			CreatedAt:   now,
		})
	}
	return s.contactRepo.ReplaceAll(cmd.UserID, contacts)
}
