package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"cypress/internal/config"
	"cypress/internal/domain"
	"cypress/internal/domain/models"
)

type fakeSubscriptionRepo struct {
	sub *models.Subscription
}

func (f *fakeSubscriptionRepo) GetByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	return f.sub, nil
}

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) SearchByEmailPrefix(ctx context.Context, prefix string) ([]models.User, error) {
	return f.users, nil
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name      string
		sub       *models.Subscription
		wantPlan  string
		wantLimit int
	}{
		{"no subscription is free", nil, "free", config.FreePlanFolderLimit},
		{"active is pro", &models.Subscription{Status: models.SubscriptionActive}, "pro", 0},
		{"trialing is pro", &models.Subscription{Status: models.SubscriptionTrialing}, "pro", 0},
		{"canceled falls back to free", &models.Subscription{Status: models.SubscriptionCanceled}, "free", config.FreePlanFolderLimit},
		{"past due falls back to free", &models.Subscription{Status: models.SubscriptionPastDue}, "free", config.FreePlanFolderLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAccountService(&fakeSubscriptionRepo{sub: tt.sub}, &fakeUserRepo{}, slog.New(slog.DiscardHandler))
			plan, err := svc.Plan(context.Background(), testOwnerID)
			if err != nil {
				t.Fatalf("Plan() error: %v", err)
			}
			if plan.Plan != tt.wantPlan {
				t.Errorf("Plan() = %q, want %q", plan.Plan, tt.wantPlan)
			}
			if plan.FolderLimit != tt.wantLimit {
				t.Errorf("FolderLimit = %d, want %d", plan.FolderLimit, tt.wantLimit)
			}
		})
	}
}

func TestCheckFolderQuota(t *testing.T) {
	tests := []struct {
		name    string
		sub     *models.Subscription
		count   int
		wantErr bool
	}{
		{"free under limit", nil, config.FreePlanFolderLimit - 1, false},
		{"free at limit", nil, config.FreePlanFolderLimit, true},
		{"free over limit", nil, config.FreePlanFolderLimit + 2, true},
		{"pro unlimited", &models.Subscription{Status: models.SubscriptionActive}, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAccountService(&fakeSubscriptionRepo{sub: tt.sub}, &fakeUserRepo{}, slog.New(slog.DiscardHandler))
			err := svc.CheckFolderQuota(context.Background(), testOwnerID, tt.count)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrForbidden) {
					t.Fatalf("CheckFolderQuota() error = %v, want ErrForbidden", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckFolderQuota() unexpected error: %v", err)
			}
		})
	}
}

func TestSearchCollaborators(t *testing.T) {
	userRepo := &fakeUserRepo{users: []models.User{
		{ID: testOwnerID, Email: "owner@example.com"},
		{ID: testMemberID, Email: "other@example.com"},
	}}
	svc := NewAccountService(&fakeSubscriptionRepo{}, userRepo, slog.New(slog.DiscardHandler))

	results, err := svc.SearchCollaborators(context.Background(), testOwnerID, "o")
	if err != nil {
		t.Fatalf("SearchCollaborators() error: %v", err)
	}
	if len(results) != 1 || results[0].ID != testMemberID {
		t.Errorf("SearchCollaborators() = %+v, want only the other user", results)
	}

	// The requester is never a candidate, and an empty prefix is rejected.
	if _, err := svc.SearchCollaborators(context.Background(), testOwnerID, "   "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty prefix error = %v, want ErrValidation", err)
	}
}
