package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Tecnolosic/rompeelciclo/internal/repository"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

// VerificationService flips the license gate for a user. Payment webhooks
// and manual license checks both land here; the update is written to the
// profile row and pushed into the live state when the user is active.
type VerificationService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	emailService      *EmailService
	store             *state.Store
}

func NewVerificationService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	emailService *EmailService,
	store *state.Store,
) *VerificationService {
	return &VerificationService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		emailService:      emailService,
		store:             store,
	}
}

// MarkVerified unlocks full access for the user.
func (s *VerificationService) MarkVerified(userID string) error {
	err := s.profileRepository.MarkVerified(userID)
	if err != nil {
		return fmt.Errorf("failed to mark profile verified: %w", err)
	}

	if silo, ok := s.store.Peek(userID); ok {
		silo.Verify()
	}

	slog.Info("user verified", "user_id", userID)
	return nil
}

// MarkVerifiedByEmail resolves the purchase email to a user and unlocks
// access. Purchases from emails without an account are logged and skipped;
// the user can claim the license later through the manual check.
func (s *VerificationService) MarkVerifiedByEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Warn("purchase for unknown email, skipping", "email", email)
			return nil
		}
		return fmt.Errorf("failed to look up purchaser: %w", err)
	}

	err = s.MarkVerified(user.ID)
	if err != nil {
		return err
	}

	if s.emailService != nil {
		err = s.emailService.SendLicenseActivatedEmail(user.Email)
		if err != nil {
			slog.Warn("failed to send license email", "error", err, "email", user.Email)
		}
	}
	return nil
}
