package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/middleware"
	"github.com/challengeer/challenge-service/internal/models"
)

// AuthCommander defines the write-side operations used by AuthHandler.
type AuthCommander interface {
	Register(cqrs.RegisterUserCommand) (*models.AuthView, error)
	GoogleLogin(cqrs.GoogleLoginCommand) (*models.AuthView, error)
}

// AuthQuerier defines the read-side operations used by AuthHandler.
type AuthQuerier interface {
	Login(cqrs.LoginCommand) (*models.AuthView, error)
	RefreshToken(cqrs.RefreshTokenCommand) (*models.AuthView, error)
}

// AuthHandler routes requests to the command or query service as appropriate.
type AuthHandler struct {
	commands AuthCommander
	queries  AuthQuerier
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	DisplayName string `json:"displayName" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Password    string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func NewAuthHandler(commands AuthCommander, queries AuthQuerier) *AuthHandler {
	return &AuthHandler{commands: commands, queries: queries}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	auth, err := h.commands.Register(cqrs.RegisterUserCommand{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		switch err.Error() {
		case "invalid username":
			middleware.RespondWithError(c, http.StatusBadRequest, "Username must be 3-30 characters: lowercase letters, digits, underscores, dots")
		case "username already taken":
			middleware.RespondWithError(c, http.StatusConflict, "Username already taken")
		case "email already registered":
			middleware.RespondWithError(c, http.StatusConflict, "Email already registered")
		case "phone number already registered":
			middleware.RespondWithError(c, http.StatusConflict, "Phone number already registered")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	c.JSON(http.StatusCreated, auth)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	auth, err := h.queries.Login(cqrs.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if err.Error() == "invalid credentials" || err.Error() == "user not found" {
			middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, auth)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	auth, err := h.commands.GoogleLogin(cqrs.GoogleLoginCommand{IDToken: req.IDToken})
	if err != nil {
		if err.Error() == "invalid google token" {
			middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid Google ID token")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to log in with Google")
		return
	}

	c.JSON(http.StatusOK, auth)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	auth, err := h.queries.RefreshToken(cqrs.RefreshTokenCommand{RefreshToken: req.RefreshToken})
	if err != nil {
		if err.Error() == "invalid refresh token" || err.Error() == "user not found" {
			middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, auth)
}
