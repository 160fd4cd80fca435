package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cypress/internal/config"
	"cypress/internal/domain"
	"cypress/internal/domain/models"
	"cypress/internal/domain/repositories"
	"cypress/internal/domain/services"
)

// accountService implements the AccountService interface
type accountService struct {
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	logger           *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) services.AccountService {
	return &accountService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// Plan resolves the user's plan. No subscription row, or one in a lapsed
// state, means the free plan.
func (s *accountService) Plan(ctx context.Context, userID string) (*services.PlanInfo, error) {
	sub, err := s.subscriptionRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	if sub == nil {
		return &services.PlanInfo{Plan: "free", FolderLimit: config.FreePlanFolderLimit}, nil
	}
	if !sub.IsActive() {
		return &services.PlanInfo{Plan: "free", Status: sub.Status, FolderLimit: config.FreePlanFolderLimit}, nil
	}
	return &services.PlanInfo{Plan: "pro", Status: sub.Status}, nil
}

// CheckFolderQuota gates folder creation on the free plan.
func (s *accountService) CheckFolderQuota(ctx context.Context, userID string, folderCount int) error {
	plan, err := s.Plan(ctx, userID)
	if err != nil {
		return err
	}
	if plan.FolderLimit > 0 && folderCount >= plan.FolderLimit {
		s.logger.Info("folder quota reached", "user_id", userID, "count", folderCount, "limit", plan.FolderLimit)
		return fmt.Errorf("folder limit of %d reached, upgrade to create more: %w", plan.FolderLimit, domain.ErrForbidden)
	}
	return nil
}

// SearchCollaborators finds users by email prefix, excluding the requester.
func (s *accountService) SearchCollaborators(ctx context.Context, userID, emailPrefix string) ([]models.User, error) {
	emailPrefix = strings.TrimSpace(emailPrefix)
	if err := validation.Validate(emailPrefix, validation.Required, validation.Length(1, 254)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	users, err := s.userRepo.SearchByEmailPrefix(ctx, emailPrefix)
	if err != nil {
		return nil, err
	}

	results := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID == userID {
			continue
		}
		results = append(results, u)
	}
	return results, nil
}
