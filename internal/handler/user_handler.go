package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/middleware"
	"github.com/challengeer/challenge-service/internal/models"
)

// maxImageUploadBytes caps avatar and submission uploads before decoding.
const maxImageUploadBytes = 10 << 20

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	UpdateProfile(cqrs.UpdateProfileCommand) (*models.ProfileView, error)
	UploadAvatar(cqrs.UploadAvatarCommand) (*models.ProfileView, error)
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(cqrs.GetUserQuery) (*models.UserView, error)
	GetProfile(cqrs.GetProfileQuery) (*models.ProfileView, error)
	SearchUsers(cqrs.SearchUsersQuery) ([]models.UserView, error)
	CheckUsername(cqrs.CheckUsernameQuery) (bool, error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

type UpdateProfileRequest struct {
	Username    string `json:"username" validate:"omitempty,min=3,max=30"`
	DisplayName string `json:"displayName" validate:"omitempty,max=50"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

// GetMe returns the authenticated user's own full profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	profile, err := h.queries.GetProfile(cqrs.GetProfileQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetUser returns another user's public profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	view, err := h.queries.GetUser(cqrs.GetUserQuery{UserID: c.Param("userId")})
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		middleware.RespondWithError(c, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	views, err := h.queries.SearchUsers(cqrs.SearchUsersQuery{
		Query: query,
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to search users")
		return
	}
	if views == nil {
		views = []models.UserView{}
	}

	c.JSON(http.StatusOK, gin.H{"users": views})
}

func (h *UserHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		middleware.RespondWithError(c, http.StatusBadRequest, "Query parameter 'username' is required")
		return
	}

	available, err := h.queries.CheckUsername(cqrs.CheckUsernameQuery{Username: username})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to check username")
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	profile, err := h.commands.UpdateProfile(cqrs.UpdateProfileCommand{
		UserID:      userID,
		Username:    req.Username,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		switch err.Error() {
		case "invalid username":
			middleware.RespondWithError(c, http.StatusBadRequest, "Username must be 3-30 characters: lowercase letters, digits, underscores, dots")
		case "username already taken":
			middleware.RespondWithError(c, http.StatusConflict, "Username already taken")
		case "user not found":
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadAvatar accepts a multipart image under the "image" field.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	data, ok := readImageUpload(c)
	if !ok {
		return
	}

	profile, err := h.commands.UploadAvatar(cqrs.UploadAvatarCommand{
		UserID: userID,
		Image:  data,
	})
	if err != nil {
		if err.Error() == "invalid image" {
			middleware.RespondWithError(c, http.StatusBadRequest, "File is not a valid image")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to upload avatar")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// readImageUpload extracts and size-checks the "image" multipart field. It
// writes the error response itself and returns ok=false on failure.
func readImageUpload(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Multipart field 'image' is required")
		return nil, false
	}
	if fileHeader.Size > maxImageUploadBytes {
		middleware.RespondWithError(c, http.StatusRequestEntityTooLarge, "Image exceeds the 10MB limit")
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Failed to read uploaded image")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Failed to read uploaded image")
		return nil, false
	}
	return data, true
}
