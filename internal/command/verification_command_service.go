package command

import (
	"fmt"
	"time"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
	"github.com/challengeer/challenge-service/internal/repository"
	"github.com/challengeer/challenge-service/internal/utils"
)

const verificationTTL = 5 * time.Minute

// VerificationCommandService issues and checks phone verification codes.
// Dispatching the code over SMS is the gateway provider's job; this service
// only owns the code lifecycle.
type VerificationCommandService struct {
	verificationRepo *repository.VerificationRepository
	userRepo         *repository.UserWriteRepository
}

func NewVerificationCommandService(
	verificationRepo *repository.VerificationRepository,
	userRepo *repository.UserWriteRepository,
) *VerificationCommandService {
	return &VerificationCommandService{verificationRepo: verificationRepo, userRepo: userRepo}
}

// CreateCode generates a fresh 6-digit code for the phone number. A repeat
// request replaces the previous code and resets its expiry.
func (s *VerificationCommandService) CreateCode(cmd cqrs.CreateVerificationCodeCommand) (*models.VerificationCode, error) {
	registered, err := s.userRepo.PhoneExists(cmd.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, fmt.Errorf("phone number already registered")
	}

	now := time.Now().UTC()
	code := &models.VerificationCode{
		PhoneNumber: cmd.PhoneNumber,
		Code:        utils.GenerateVerificationCode(),
		Verified:    false,
		CreatedAt:   now,
		ExpiresAt:   now.Add(verificationTTL),
	}
	if err := s.verificationRepo.Upsert(code); err != nil {
		return nil, err
	}
	return code, nil
}

// VerifyCode checks the supplied code: it must exist, be unexpired, unused,
// and match. Verification is single use.
func (s *VerificationCommandService) VerifyCode(cmd cqrs.VerifyCodeCommand) error {
	code, err := s.verificationRepo.Get(cmd.PhoneNumber)
	if err != nil {
		return err
	}
	if time.Now().UTC().After(code.ExpiresAt) {
		return fmt.Errorf("verification code expired")
	}
	if code.Verified {
		return fmt.Errorf("verification code already used")
	}
	if code.Code != cmd.Code {
		return fmt.Errorf("invalid verification code")
	}
	return s.verificationRepo.MarkVerified(cmd.PhoneNumber)
}
