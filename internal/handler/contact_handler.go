package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/middleware"
	"github.com/challengeer/challenge-service/internal/models"
)

// ContactCommander defines the write-side operations used by ContactHandler.
type ContactCommander interface {
	ReplaceContacts(cqrs.ReplaceContactsCommand) error
}

// ContactQuerier defines the read-side operations used by ContactHandler.
type ContactQuerier interface {
	Recommendations(cqrs.GetRecommendationsQuery) ([]models.RecommendationView, error)
}

// ContactHandler routes requests to the command or query service as appropriate.
type ContactHandler struct {
	commands ContactCommander
	queries  ContactQuerier
}

type ContactPayload struct {
	ContactName string `json:"contactName" validate:"required,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
}

type SyncContactsRequest struct {
	Contacts []ContactPayload `json:"contacts" validate:"required,dive"`
}

func NewContactHandler(commands ContactCommander, queries ContactQuerier) *ContactHandler {
	return &ContactHandler{commands: commands, queries: queries}
}

// SyncContacts replaces the caller's uploaded address book wholesale.
func (h *ContactHandler) SyncContacts(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req SyncContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	entries := make([]cqrs.ContactEntry, 0, len(req.Contacts))
	for _, contact := range req.Contacts {
		entries = append(entries, cqrs.ContactEntry{
			ContactName: contact.ContactName,
			PhoneNumber: contact.PhoneNumber,
		})
	}

	if err := h.commands.ReplaceContacts(cqrs.ReplaceContactsCommand{
		UserID:   userID,
		Contacts: entries,
	}); err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to sync contacts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"synced": len(entries)})
}

func (h *ContactHandler) Recommendations(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	recommendations, err := h.queries.Recommendations(cqrs.GetRecommendationsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to compute recommendations")
		return
	}
	if recommendations == nil {
		recommendations = []models.RecommendationView{}
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}
