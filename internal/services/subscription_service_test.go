package services

import (
	"fmt"
	"testing"

	"digivera_backend/internal/models"
	"digivera_backend/internal/repositories"
	"digivera_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	subs []*models.Subscription
}

func (r *fakeSubscriptionRepo) Create(sub *models.Subscription) error {
	sub.ID = fmt.Sprintf("sub-%d", len(r.subs)+1)
	r.subs = append(r.subs, sub)
	return nil
}

func (r *fakeSubscriptionRepo) FindLatestByUser(userID string) (*models.Subscription, error) {
	for i := len(r.subs) - 1; i >= 0; i-- {
		if r.subs[i].UserID == userID {
			return r.subs[i], nil
		}
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) FindActiveByUser(userID string) (*models.Subscription, error) {
	for i := len(r.subs) - 1; i >= 0; i-- {
		if r.subs[i].UserID == userID && r.subs[i].Status == models.SubscriptionActive {
			return r.subs[i], nil
		}
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) FindByProviderID(providerID string) (*models.Subscription, error) {
	for _, s := range r.subs {
		if s.ProviderID == providerID {
			return s, nil
		}
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) UpdateStatus(subscriptionID string, status models.SubscriptionStatus) error {
	for _, s := range r.subs {
		if s.ID == subscriptionID {
			s.Status = status
			return nil
		}
	}
	return repositories.ErrSubscriptionNotFound
}

func TestActivateFromCheckoutUpgradesPlan(t *testing.T) {
	user := freeUser()
	userRepo := newFakeUserRepo(user)
	subRepo := &fakeSubscriptionRepo{}
	svc := NewSubscriptionService(subRepo, userRepo)

	err := svc.ActivateFromCheckout(user.ID, "sub_stripe_1", 999, "usd")
	require.NoError(t, err)

	assert.Equal(t, models.PlanPro, user.Plan)
	require.Len(t, subRepo.subs, 1)
	assert.Equal(t, models.SubscriptionActive, subRepo.subs[0].Status)
	assert.Equal(t, "stripe", subRepo.subs[0].Provider)
	assert.Equal(t, int64(999), subRepo.subs[0].Amount)
}

func TestDeactivateRevertsPlanToFree(t *testing.T) {
	user := freeUser()
	user.Plan = models.PlanPro
	userRepo := newFakeUserRepo(user)
	subRepo := &fakeSubscriptionRepo{subs: []*models.Subscription{{
		BaseModel:  models.BaseModel{ID: "sub-1"},
		UserID:     user.ID,
		Provider:   "stripe",
		ProviderID: "sub_stripe_1",
		Status:     models.SubscriptionActive,
	}}}
	svc := NewSubscriptionService(subRepo, userRepo)

	err := svc.DeactivateByProviderID("sub_stripe_1", models.SubscriptionCancelled)
	require.NoError(t, err)

	assert.Equal(t, models.PlanFree, user.Plan)
	assert.Equal(t, models.SubscriptionCancelled, subRepo.subs[0].Status)
}

func TestDeactivateUnknownSubscriptionIsIgnored(t *testing.T) {
	svc := NewSubscriptionService(&fakeSubscriptionRepo{}, newFakeUserRepo())

	err := svc.DeactivateByProviderID("sub_unknown", models.SubscriptionCancelled)
	assert.NoError(t, err, "webhooks for unknown subscriptions must be acknowledged, not retried")
}

func TestGetCurrentWithoutSubscription(t *testing.T) {
	user := freeUser()
	svc := NewSubscriptionService(&fakeSubscriptionRepo{}, newFakeUserRepo(user))

	resp, err := svc.GetCurrent(user.ID)
	require.NoError(t, err)

	assert.Equal(t, "free", resp.Plan)
	assert.Empty(t, resp.Status)
}

func TestCreateCheckoutRejectsActiveSubscription(t *testing.T) {
	// Plan still says free (the upgrade webhook has not landed yet) but an
	// active subscription row already exists; a second checkout must be refused.
	user := freeUser()
	subRepo := &fakeSubscriptionRepo{subs: []*models.Subscription{{
		BaseModel:  models.BaseModel{ID: "sub-1"},
		UserID:     user.ID,
		Provider:   "stripe",
		ProviderID: "sub_stripe_1",
		Status:     models.SubscriptionActive,
	}}}
	svc := NewSubscriptionService(subRepo, newFakeUserRepo(user))

	_, err := svc.CreateCheckout(user.ID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestCreateCheckoutRejectsExistingPro(t *testing.T) {
	user := freeUser()
	user.Plan = models.PlanPro
	svc := NewSubscriptionService(&fakeSubscriptionRepo{}, newFakeUserRepo(user))

	_, err := svc.CreateCheckout(user.ID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}
