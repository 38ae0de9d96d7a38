package services

import (
	"time"

	"digivera_backend/internal/config"
	"digivera_backend/internal/logger"
	"digivera_backend/internal/models"
	"digivera_backend/internal/repositories"
	"digivera_backend/internal/services/dto"
	"digivera_backend/pkg/apperrors"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type SubscriptionService interface {
	// CreateCheckout starts a Stripe checkout session for the pro plan
	CreateCheckout(userID string) (*dto.CheckoutResponse, error)

	GetCurrent(userID string) (*dto.SubscriptionResponse, error)

	// ActivateFromCheckout records a verified payment and flips the user's
	// plan to pro. This is the only path that upgrades a plan.
	ActivateFromCheckout(userID, providerSubID string, amount int64, currency string) error

	// DeactivateByProviderID ends a subscription (cancelled or expired) and
	// reverts the owner's plan to free.
	DeactivateByProviderID(providerSubID string, status models.SubscriptionStatus) error
}

type SubscriptionServiceImpl struct {
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
) SubscriptionService {
	return &SubscriptionServiceImpl{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
	}
}

func (s *SubscriptionServiceImpl) CreateCheckout(userID string) (*dto.CheckoutResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if user.Plan == models.PlanPro {
		return nil, apperrors.ErrAlreadySubscribed
	}

	// The plan flip and the subscription row are written by separate webhook
	// events; an active row alone still means the user already paid.
	if _, err := s.subscriptionRepo.FindActiveByUser(userID); err == nil {
		return nil, apperrors.ErrAlreadySubscribed
	} else if !apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.InternalError(err)
	}

	cfg := config.GetConfig()

	params := &stripe.CheckoutSessionParams{
		ClientReferenceID: stripe.String(user.ID),
		CustomerEmail:     stripe.String(user.Email),
		SuccessURL:        stripe.String(cfg.Stripe.SuccessURL),
		CancelURL:         stripe.String(cfg.Stripe.CancelURL),
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(cfg.Stripe.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := session.New(params)
	if err != nil {
		logger.Error("stripe checkout session creation failed", "error", err)
		return nil, apperrors.ErrPaymentProviderError
	}

	return &dto.CheckoutResponse{URL: sess.URL}, nil
}

func (s *SubscriptionServiceImpl) GetCurrent(userID string) (*dto.SubscriptionResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	sub, err := s.subscriptionRepo.FindLatestByUser(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return dto.NewSubscriptionResponse(user.Plan, nil), nil
		}
		return nil, apperrors.InternalError(err)
	}

	return dto.NewSubscriptionResponse(user.Plan, sub), nil
}

func (s *SubscriptionServiceImpl) ActivateFromCheckout(userID, providerSubID string, amount int64, currency string) error {
	now := time.Now()
	sub := &models.Subscription{
		UserID:     userID,
		Provider:   "stripe",
		ProviderID: providerSubID,
		Status:     models.SubscriptionActive,
		Amount:     amount,
		Currency:   currency,
		StartedAt:  now,
		EndsAt:     now.AddDate(0, 1, 0),
	}

	if err := s.subscriptionRepo.Create(sub); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePlan(userID, models.PlanPro); err != nil {
		return apperrors.InternalError(err)
	}

	logger.Info("subscription activated", "user_id", userID)
	return nil
}

func (s *SubscriptionServiceImpl) DeactivateByProviderID(providerSubID string, status models.SubscriptionStatus) error {
	sub, err := s.subscriptionRepo.FindByProviderID(providerSubID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			// Webhook for a subscription we never recorded; nothing to do
			logger.Warn("webhook for unknown subscription ignored")
			return nil
		}
		return apperrors.InternalError(err)
	}

	if err := s.subscriptionRepo.UpdateStatus(sub.ID, status); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePlan(sub.UserID, models.PlanFree); err != nil {
		return apperrors.InternalError(err)
	}

	logger.Info("subscription ended", "user_id", sub.UserID, "status", status)
	return nil
}
