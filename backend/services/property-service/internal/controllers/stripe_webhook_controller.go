package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/poofware/mono-repo/backend/services/property-service/internal/services"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

type StripeWebhookController struct {
	secret  string
	billing services.BillingService
}

func NewStripeWebhookController(secret string, billing services.BillingService) *StripeWebhookController {
	return &StripeWebhookController{secret: secret, billing: billing}
}

// WebhookHandler -> POST /api/v1/billing/stripe/webhook
func (c *StripeWebhookController) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing Stripe-Signature header", nil)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Failed to read webhook body", nil, err)
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, c.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		utils.Logger.WithError(err).Error("Stripe webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			utils.Logger.WithError(err).Errorf("Could not parse stripe.Subscription object for event type %s", event.Type)
			break
		}
		if event.Type == stripe.EventTypeCustomerSubscriptionDeleted {
			sub.Status = stripe.SubscriptionStatusCanceled
		}
		if _, err := c.billing.SyncSubscription(r.Context(), &sub); err != nil {
			// Stripe retries on non-2xx.
			utils.HandleAppError(w, err)
			return
		}
	default:
		utils.Logger.Infof("Unhandled Stripe event type received in property-service: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
