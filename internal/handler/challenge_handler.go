package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/middleware"
	"github.com/challengeer/challenge-service/internal/models"
)

// ChallengeCommander defines the write-side operations used by ChallengeHandler.
type ChallengeCommander interface {
	CreateChallenge(cqrs.CreateChallengeCommand) (*models.Challenge, error)
	UpdateChallenge(cqrs.UpdateChallengeCommand) (*models.Challenge, error)
	DeleteChallenge(cqrs.DeleteChallengeCommand) error
	Invite(cqrs.InviteToChallengeCommand) (int, error)
	AcceptInvitation(cqrs.AcceptInvitationCommand) (*models.ChallengeInvitation, error)
	DeclineInvitation(cqrs.DeclineInvitationCommand) (*models.ChallengeInvitation, error)
	SubmitPhoto(cqrs.SubmitPhotoCommand) (*models.ChallengeSubmission, error)
}

// ChallengeQuerier defines the read-side operations used by ChallengeHandler.
type ChallengeQuerier interface {
	ListChallenges(cqrs.ListChallengesQuery) (*models.ChallengeListView, error)
	GetChallenge(cqrs.GetChallengeQuery) (*models.ChallengeDetailView, error)
	ListSubmissions(cqrs.ListSubmissionsQuery) ([]models.SubmissionView, error)
	HasNewSubmissions(cqrs.HasNewSubmissionsQuery) (bool, error)
}

// ChallengeHandler routes requests to the command or query service as
// appropriate.
type ChallengeHandler struct {
	commands ChallengeCommander
	queries  ChallengeQuerier
}

type CreateChallengeRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Emoji       string `json:"emoji" validate:"max=16"`
	Category    string `json:"category" validate:"max=50"`
}

type UpdateChallengeRequest struct {
	Title       string `json:"title" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type InviteRequest struct {
	ReceiverIDs []string `json:"receiverIds" validate:"required,min=1,dive,required"`
}

func NewChallengeHandler(commands ChallengeCommander, queries ChallengeQuerier) *ChallengeHandler {
	return &ChallengeHandler{commands: commands, queries: queries}
}

func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	challenge, err := h.commands.CreateChallenge(cqrs.CreateChallengeCommand{
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Emoji:       req.Emoji,
		Category:    req.Category,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create challenge")
		return
	}

	c.JSON(http.StatusCreated, challenge)
}

func (h *ChallengeHandler) UpdateChallenge(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	challenge, err := h.commands.UpdateChallenge(cqrs.UpdateChallengeCommand{
		ChallengeID:      c.Param("challengeId"),
		RequestingUserID: userID,
		Title:            req.Title,
		Description:      req.Description,
	})
	if err != nil {
		switch err.Error() {
		case "challenge not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Challenge not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "Only the creator can edit this challenge")
		case "challenge is not active":
			middleware.RespondWithError(c, http.StatusConflict, "Challenge is no longer active")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update challenge")
		}
		return
	}

	c.JSON(http.StatusOK, challenge)
}

func (h *ChallengeHandler) DeleteChallenge(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	err := h.commands.DeleteChallenge(cqrs.DeleteChallengeCommand{
		ChallengeID:      c.Param("challengeId"),
		RequestingUserID: userID,
	})
	if err != nil {
		switch err.Error() {
		case "challenge not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Challenge not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "Only the creator can delete this challenge")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete challenge")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	list, err := h.queries.ListChallenges(cqrs.ListChallengesQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list challenges")
		return
	}
	if list.Owned == nil {
		list.Owned = []models.ChallengeSummaryView{}
	}
	if list.Participating == nil {
		list.Participating = []models.ChallengeSummaryView{}
	}
	if list.Invitations == nil {
		list.Invitations = []models.InvitationView{}
	}

	c.JSON(http.StatusOK, list)
}

func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	detail, err := h.queries.GetChallenge(cqrs.GetChallengeQuery{
		ChallengeID:      c.Param("challengeId"),
		RequestingUserID: userID,
	})
	if err != nil {
		switch err.Error() {
		case "challenge not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Challenge not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You are not part of this challenge")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch challenge")
		}
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *ChallengeHandler) Invite(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	sent, err := h.commands.Invite(cqrs.InviteToChallengeCommand{
		ChallengeID: c.Param("challengeId"),
		SenderID:    userID,
		ReceiverIDs: req.ReceiverIDs,
	})
	if err != nil {
		switch err.Error() {
		case "challenge not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Challenge not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "Only the creator can invite to this challenge")
		case "challenge is not active":
			middleware.RespondWithError(c, http.StatusConflict, "Challenge is no longer active")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to send invitations")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sent": sent})
}

func (h *ChallengeHandler) AcceptInvitation(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	invitation, err := h.commands.AcceptInvitation(cqrs.AcceptInvitationCommand{
		InvitationID:     c.Param("invitationId"),
		RequestingUserID: userID,
	})
	if err != nil {
		respondInvitationError(c, err, "Failed to accept invitation")
		return
	}

	c.JSON(http.StatusOK, invitation)
}

func (h *ChallengeHandler) DeclineInvitation(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	invitation, err := h.commands.DeclineInvitation(cqrs.DeclineInvitationCommand{
		InvitationID:     c.Param("invitationId"),
		RequestingUserID: userID,
	})
	if err != nil {
		respondInvitationError(c, err, "Failed to decline invitation")
		return
	}

	c.JSON(http.StatusOK, invitation)
}

func respondInvitationError(c *gin.Context, err error, fallback string) {
	switch err.Error() {
	case "invitation not found":
		middleware.RespondWithError(c, http.StatusNotFound, "Invitation not found")
	case "forbidden":
		middleware.RespondWithError(c, http.StatusForbidden, "Only the invitee can respond to this invitation")
	case "invitation is not pending":
		middleware.RespondWithError(c, http.StatusConflict, "Invitation has already been handled")
	case "challenge is not active":
		middleware.RespondWithError(c, http.StatusConflict, "Challenge is no longer active")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}

// SubmitPhoto accepts a multipart upload: the photo under "image" and an
// optional "caption" form field.
func (h *ChallengeHandler) SubmitPhoto(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	data, ok := readImageUpload(c)
	if !ok {
		return
	}

	submission, err := h.commands.SubmitPhoto(cqrs.SubmitPhotoCommand{
		ChallengeID: c.Param("challengeId"),
		UserID:      userID,
		Caption:     c.PostForm("caption"),
		Image:       data,
	})
	if err != nil {
		switch err.Error() {
		case "challenge not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Challenge not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You are not part of this challenge")
		case "challenge is not active":
			middleware.RespondWithError(c, http.StatusConflict, "Challenge is no longer active")
		case "already submitted":
			middleware.RespondWithError(c, http.StatusConflict, "You have already submitted to this challenge")
		case "invalid image":
			middleware.RespondWithError(c, http.StatusBadRequest, "File is not a valid image")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to submit photo")
		}
		return
	}

	c.JSON(http.StatusCreated, submission)
}

func (h *ChallengeHandler) ListSubmissions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	submissions, err := h.queries.ListSubmissions(cqrs.ListSubmissionsQuery{
		ChallengeID:      c.Param("challengeId"),
		RequestingUserID: userID,
	})
	if err != nil {
		switch err.Error() {
		case "challenge not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Challenge not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You are not part of this challenge")
		case "submission required":
			middleware.RespondWithError(c, http.StatusForbidden, "Submit your own photo to see the others")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list submissions")
		}
		return
	}
	if submissions == nil {
		submissions = []models.SubmissionView{}
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

func (h *ChallengeHandler) HasNewSubmissions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	hasNew, err := h.queries.HasNewSubmissions(cqrs.HasNewSubmissionsQuery{
		ChallengeID:      c.Param("challengeId"),
		RequestingUserID: userID,
	})
	if err != nil {
		if err.Error() == "forbidden" {
			middleware.RespondWithError(c, http.StatusForbidden, "You are not part of this challenge")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to check submissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"hasNewSubmissions": hasNew})
}
