package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"digivera_backend/internal/config"
	"digivera_backend/internal/logger"
	"digivera_backend/internal/middleware"
	"digivera_backend/internal/models"
	"digivera_backend/internal/services"
	"digivera_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Stripe recommends capping webhook payloads at 64KB
const maxWebhookBodyBytes = int64(65536)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sub := rg.Group("/subscription")

	// Stripe calls the webhook directly; signature verification replaces auth
	sub.POST("/webhook", h.Webhook)

	authed := sub.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("/checkout", h.CreateCheckout)
		authed.GET("", h.GetCurrent)
	}
}

func (h *SubscriptionHandler) CreateCheckout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.subscriptionService.CreateCheckout(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Checkout session created", response)
}

func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.subscriptionService.GetCurrent(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Subscription retrieved", response)
}

func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.CtxWithError(ctx, "failed to read webhook payload", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unable to read request body"))
		return
	}

	cfg := config.GetConfig()
	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), cfg.Stripe.WebhookSecret)
	if err != nil {
		logger.CtxWithError(ctx, "webhook signature verification failed", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid webhook signature"))
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			logger.CtxWithError(ctx, "failed to parse checkout session event", err)
			apperrors.HandleError(c, apperrors.NewBadRequestError("Malformed event payload"))
			return
		}

		providerSubID := ""
		if sess.Subscription != nil {
			providerSubID = sess.Subscription.ID
		}

		if err := h.subscriptionService.ActivateFromCheckout(
			sess.ClientReferenceID,
			providerSubID,
			sess.AmountTotal,
			string(sess.Currency),
		); err != nil {
			h.HandleServiceError(c, err)
			return
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			logger.CtxWithError(ctx, "failed to parse subscription event", err)
			apperrors.HandleError(c, apperrors.NewBadRequestError("Malformed event payload"))
			return
		}

		if err := h.subscriptionService.DeactivateByProviderID(sub.ID, models.SubscriptionCancelled); err != nil {
			h.HandleServiceError(c, err)
			return
		}

	case "invoice.payment_failed":
		// Only the subscription reference is needed from the invoice
		var inv struct {
			Subscription string `json:"subscription"`
		}
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			logger.CtxWithError(ctx, "failed to parse invoice event", err)
			apperrors.HandleError(c, apperrors.NewBadRequestError("Malformed event payload"))
			return
		}

		if inv.Subscription != "" {
			if err := h.subscriptionService.DeactivateByProviderID(inv.Subscription, models.SubscriptionExpired); err != nil {
				h.HandleServiceError(c, err)
				return
			}
		}

	default:
		logger.CtxInfo(ctx, "unhandled webhook event ignored", "type", event.Type)
	}

	h.RespondSuccess(c, http.StatusOK, "Webhook processed", nil)
}
