package services

import (
	"context"

	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
	"github.com/stripe/stripe-go/v82"
)

// BillingService keeps stored subscriptions in step with Stripe.
type BillingService interface {
	// SyncSubscription applies a Stripe subscription object to the stored
	// subscription with the same Stripe id. Unknown ids are ignored and
	// return nil.
	SyncSubscription(ctx context.Context, sub *stripe.Subscription) (*models.Subscription, error)
}

type billingService struct {
	subscriptions repositories.SubscriptionRepository
}

func NewBillingService(subscriptions repositories.SubscriptionRepository) BillingService {
	return &billingService{subscriptions: subscriptions}
}

var stripeStatuses = map[stripe.SubscriptionStatus]models.SubscriptionStatus{
	stripe.SubscriptionStatusActive:            models.SubscriptionStatusActive,
	stripe.SubscriptionStatusTrialing:          models.SubscriptionStatusTrialing,
	stripe.SubscriptionStatusPastDue:           models.SubscriptionStatusPastDue,
	stripe.SubscriptionStatusUnpaid:            models.SubscriptionStatusUnpaid,
	stripe.SubscriptionStatusCanceled:          models.SubscriptionStatusCanceled,
	stripe.SubscriptionStatusIncomplete:        models.SubscriptionStatusIncomplete,
	stripe.SubscriptionStatusIncompleteExpired: models.SubscriptionStatusCanceled,
}

func (s *billingService) SyncSubscription(ctx context.Context, sub *stripe.Subscription) (*models.Subscription, error) {
	existing, err := s.subscriptions.FindByStripeSubscriptionID(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		utils.Logger.WithField("stripe_subscription_id", sub.ID).Warn("Stripe event for unknown subscription, ignoring")
		return nil, nil
	}

	patch := models.SubscriptionUpdate{CancelAtPeriodEnd: utils.Ptr(sub.CancelAtPeriodEnd)}
	if status, ok := stripeStatuses[sub.Status]; ok {
		if status != existing.Status {
			patch.Status = &status
		}
	} else {
		utils.Logger.WithField("stripe_status", sub.Status).Warn("Unmapped Stripe subscription status, keeping current status")
	}
	return s.subscriptions.Update(ctx, existing.ID, patch)
}
