package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/middleware"
	"github.com/challengeer/challenge-service/internal/models"
)

// FriendCommander defines the write-side operations used by FriendHandler.
type FriendCommander interface {
	SendRequest(cqrs.SendFriendRequestCommand) (*models.FriendRequest, error)
	AcceptRequest(cqrs.AcceptFriendRequestCommand) (*models.FriendRequest, error)
	RejectRequest(cqrs.RejectFriendRequestCommand) (*models.FriendRequest, error)
}

// FriendQuerier defines the read-side operations used by FriendHandler.
type FriendQuerier interface {
	ListFriends(cqrs.ListFriendsQuery) ([]models.UserView, error)
	ListRequests(cqrs.ListFriendRequestsQuery) ([]models.FriendRequestView, error)
}

// FriendHandler routes requests to the command or query service as appropriate.
type FriendHandler struct {
	commands FriendCommander
	queries  FriendQuerier
}

type SendFriendRequestRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
}

func NewFriendHandler(commands FriendCommander, queries FriendQuerier) *FriendHandler {
	return &FriendHandler{commands: commands, queries: queries}
}

func (h *FriendHandler) SendRequest(c *gin.Context) {
	senderID, _ := middleware.GetUserID(c)

	var req SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	request, err := h.commands.SendRequest(cqrs.SendFriendRequestCommand{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
	})
	if err != nil {
		switch err.Error() {
		case "cannot send friend request to yourself":
			middleware.RespondWithError(c, http.StatusBadRequest, "You cannot send a friend request to yourself")
		case "receiver not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Receiver not found")
		case "friend request already exists":
			middleware.RespondWithError(c, http.StatusConflict, "Friend request already exists")
		case "already friends":
			middleware.RespondWithError(c, http.StatusConflict, "You are already friends")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to send friend request")
		}
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	request, err := h.commands.AcceptRequest(cqrs.AcceptFriendRequestCommand{
		RequestID:        c.Param("requestId"),
		RequestingUserID: userID,
	})
	if err != nil {
		respondFriendRequestError(c, err, "Failed to accept friend request")
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *FriendHandler) RejectRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	request, err := h.commands.RejectRequest(cqrs.RejectFriendRequestCommand{
		RequestID:        c.Param("requestId"),
		RequestingUserID: userID,
	})
	if err != nil {
		respondFriendRequestError(c, err, "Failed to reject friend request")
		return
	}

	c.JSON(http.StatusOK, request)
}

func respondFriendRequestError(c *gin.Context, err error, fallback string) {
	switch err.Error() {
	case "friend request not found":
		middleware.RespondWithError(c, http.StatusNotFound, "Friend request not found")
	case "forbidden":
		middleware.RespondWithError(c, http.StatusForbidden, "Only the receiver can respond to this request")
	case "friend request is not pending":
		middleware.RespondWithError(c, http.StatusConflict, "Friend request has already been handled")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}

func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	friends, err := h.queries.ListFriends(cqrs.ListFriendsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list friends")
		return
	}
	if friends == nil {
		friends = []models.UserView{}
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

func (h *FriendHandler) ListRequests(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	requests, err := h.queries.ListRequests(cqrs.ListFriendRequestsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list friend requests")
		return
	}
	if requests == nil {
		requests = []models.FriendRequestView{}
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
