package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/middleware"
	"github.com/challengeer/challenge-service/internal/models"
)

// VerificationCommander defines the operations used by VerificationHandler.
type VerificationCommander interface {
	CreateCode(cqrs.CreateVerificationCodeCommand) (*models.VerificationCode, error)
	VerifyCode(cqrs.VerifyCodeCommand) error
}

// VerificationHandler serves phone verification during sign-up. These routes
// are unauthenticated: the caller does not have an account yet.
type VerificationHandler struct {
	commands VerificationCommander
}

type SendCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
}

type VerifyCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Code        string `json:"code" validate:"required,len=6"`
}

func NewVerificationHandler(commands VerificationCommander) *VerificationHandler {
	return &VerificationHandler{commands: commands}
}

func (h *VerificationHandler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	if _, err := h.commands.CreateCode(cqrs.CreateVerificationCodeCommand{
		PhoneNumber: req.PhoneNumber,
	}); err != nil {
		if err.Error() == "phone number already registered" {
			middleware.RespondWithError(c, http.StatusConflict, "Phone number already registered")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to send verification code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true})
}

func (h *VerificationHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	if err := h.commands.VerifyCode(cqrs.VerifyCodeCommand{
		PhoneNumber: req.PhoneNumber,
		Code:        req.Code,
	}); err != nil {
		switch err.Error() {
		case "phone number not found":
			middleware.RespondWithError(c, http.StatusNotFound, "No verification code for this phone number")
		case "verification code expired":
			middleware.RespondWithError(c, http.StatusGone, "Verification code has expired")
		case "verification code already used":
			middleware.RespondWithError(c, http.StatusConflict, "Verification code has already been used")
		case "invalid verification code":
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid verification code")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to verify code")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}
