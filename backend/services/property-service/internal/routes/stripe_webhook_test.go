package routes

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/app"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/config"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test_property_service"

func stripeEvent(eventType, stripeSubID, status string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_%s",
		"object": "event",
		"api_version": %q,
		"type": %q,
		"data": {"object": {"id": %q, "object": "subscription", "status": %q, "cancel_at_period_end": true}}
	}`, uuid.NewString(), stripe.APIVersion, eventType, stripeSubID, status))
}

func signedRequest(payload []byte, secret string) *http.Request {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: secret})
	req := httptest.NewRequest(http.MethodPost, StripeWebhook, bytes.NewReader(signed.Payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	return req
}

func TestStripeWebhook_SyncsSubscription(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	t.Setenv("PROPERTY_AUTH_PUBLIC_KEY_BASE64", h.PublicKeyBase64())
	t.Setenv("PROPERTY_BILLING_STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	cfg, err := config.Load()
	require.NoError(t, err)
	router := NewRouter(app.NewAppWithStore(cfg, h.Store, repositories.WithClock(h.Clock.Now)))

	sub, err := h.Repos.Subscriptions.Create(h.Ctx, uuid.New(), models.SubscriptionInput{SubscriptionFields: models.SubscriptionFields{
		PlanTier:             models.PlanTierGrowth,
		Status:               models.SubscriptionStatusActive,
		StripeCustomerID:     "cus_webhook",
		StripeSubscriptionID: "sub_webhook",
		CurrentPeriodStart:   testhelpers.DefaultNow,
		CurrentPeriodEnd:     testhelpers.DefaultNow.AddDate(0, 1, 0),
	}})
	require.NoError(t, err)

	rec := h.DoRequest(router, signedRequest(stripeEvent("customer.subscription.updated", "sub_webhook", "past_due"), testWebhookSecret))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := h.Repos.Subscriptions.FindByID(h.Ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPastDue, got.Status)
	assert.True(t, got.CancelAtPeriodEnd)

	rec = h.DoRequest(router, signedRequest(stripeEvent("customer.subscription.deleted", "sub_webhook", "active"), testWebhookSecret))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got, err = h.Repos.Subscriptions.FindByID(h.Ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCanceled, got.Status)
	assert.NotNil(t, got.CanceledAt)

	// unknown subscriptions are acknowledged so Stripe stops retrying
	rec = h.DoRequest(router, signedRequest(stripeEvent("customer.subscription.updated", "sub_unknown", "active"), testWebhookSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStripeWebhook_RejectsBadSignature(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	t.Setenv("PROPERTY_AUTH_PUBLIC_KEY_BASE64", h.PublicKeyBase64())
	t.Setenv("PROPERTY_BILLING_STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	cfg, err := config.Load()
	require.NoError(t, err)
	router := NewRouter(app.NewAppWithStore(cfg, h.Store))

	rec := h.DoRequest(router, signedRequest(stripeEvent("customer.subscription.updated", "sub_x", "active"), "whsec_wrong"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, StripeWebhook, bytes.NewReader([]byte("{}")))
	rec = h.DoRequest(router, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStripeWebhook_DisabledWithoutSecret(t *testing.T) {
	_, router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(stripeEvent("customer.subscription.updated", "sub_x", "active"), testWebhookSecret))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
