package repositories

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-analytics"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
)

// SubscriptionRepository is keyed by the paying user. Update on a missing
// subscription returns *NotFoundError.
type SubscriptionRepository interface {
	Repository[models.Subscription, models.SubscriptionInput, models.SubscriptionUpdate, QueryOptions]

	// FindByUserID returns the user's live subscription, or the most recent
	// one when none is live.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	FindByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error)
	// Cancel ends the subscription now, or at the period end when atPeriodEnd
	// is set.
	Cancel(ctx context.Context, userID, id uuid.UUID, atPeriodEnd bool) (*models.Subscription, error)

	RecordUsage(ctx context.Context, subscriptionID uuid.UUID, input models.UsageMetricInput) (*models.UsageMetric, error)
	// ListUsage lists usage recorded for the subscription, optionally only
	// one metric, oldest period first.
	ListUsage(ctx context.Context, subscriptionID uuid.UUID, metric string) ([]*models.UsageMetric, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*models.SubscriptionStats, error)
}

type subscriptionRepo struct {
	*env
}

func NewSubscriptionRepository(s store.Store, opts ...Option) SubscriptionRepository {
	return &subscriptionRepo{env: newEnv(s, opts...)}
}

func indexSubscription(s *models.Subscription) ([]string, *uniqueKey) {
	return nil, &uniqueKey{Field: "stripe_subscription_id", Value: s.StripeSubscriptionID}
}

func indexUsage(m *models.UsageMetric) ([]string, *uniqueKey) {
	return []string{store.Ref(refSubscription, m.SubscriptionID)}, nil
}

var subscriptionList = listSpec[*models.Subscription]{
	searchText: func(s *models.Subscription) []string {
		return []string{string(s.PlanTier), string(s.Status), s.StripeCustomerID, s.StripeSubscriptionID}
	},
	sortKeys: map[string]compareFunc[*models.Subscription]{
		"planTier":         byString(func(s *models.Subscription) string { return string(s.PlanTier) }),
		"status":           byString(func(s *models.Subscription) string { return string(s.Status) }),
		"currentPeriodEnd": byTime(func(s *models.Subscription) time.Time { return s.CurrentPeriodEnd }),
	},
}

func (r *subscriptionRepo) FindByOwnerWithSearch(ctx context.Context, userID uuid.UUID, opts QueryOptions) ([]*models.Subscription, error) {
	subs, err := r.subscriptions.listByOwner(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	return paginate(subs, opts, subscriptionList), nil
}

func (r *subscriptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	return r.subscriptions.get(ctx, id, false)
}

func (r *subscriptionRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	subs, err := r.subscriptions.listByOwner(ctx, userID, false)
	if err != nil || len(subs) == 0 {
		return nil, err
	}
	slices.SortStableFunc(subs, func(a, b *models.Subscription) int { return b.CreatedAt.Compare(a.CreatedAt) })
	for _, s := range subs {
		if s.Status.IsLive() {
			return s, nil
		}
	}
	return subs[0], nil
}

func (r *subscriptionRepo) FindByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error) {
	return r.subscriptions.findUnique(ctx, uniqueKey{Field: "stripe_subscription_id", Value: stripeSubscriptionID})
}

func (r *subscriptionRepo) Create(ctx context.Context, userID uuid.UUID, input models.SubscriptionInput) (*models.Subscription, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateInput(input, input.Metadata); err != nil {
		return nil, err
	}
	if err := checkRange("current_period_start", "current_period_end", input.CurrentPeriodStart, input.CurrentPeriodEnd); err != nil {
		return nil, err
	}
	s := &models.Subscription{ID: uuid.New(), UserID: userID, SubscriptionFields: input.SubscriptionFields}
	s.Metadata = input.Metadata.Clone()
	if s.Status == "" {
		s.Status = models.SubscriptionStatusIncomplete
	}
	if s.Status == models.SubscriptionStatusCanceled {
		now := r.now()
		s.CanceledAt = &now
	}
	return r.subscriptions.insert(ctx, s)
}

func (r *subscriptionRepo) Update(ctx context.Context, id uuid.UUID, patch models.SubscriptionUpdate) (*models.Subscription, error) {
	if err := validateInput(patch, patch.Metadata); err != nil {
		return nil, err
	}
	return r.subscriptions.mutate(ctx, id, func(s *models.Subscription) error {
		wasCanceled := s.Status == models.SubscriptionStatusCanceled
		patch.ApplyTo(s)
		switch {
		case s.Status == models.SubscriptionStatusCanceled && !wasCanceled:
			now := r.now()
			s.CanceledAt = &now
		case s.Status != models.SubscriptionStatusCanceled:
			s.CanceledAt = nil
		}
		return checkRange("current_period_start", "current_period_end", s.CurrentPeriodStart, s.CurrentPeriodEnd)
	})
}

func (r *subscriptionRepo) Cancel(ctx context.Context, userID, id uuid.UUID, atPeriodEnd bool) (*models.Subscription, error) {
	return r.subscriptions.mutate(ctx, id, func(s *models.Subscription) error {
		if s.UserID != userID {
			return r.subscriptions.notFound(id)
		}
		if s.Status == models.SubscriptionStatusCanceled {
			return invalidTransition(s.Status, models.SubscriptionStatusCanceled)
		}
		if atPeriodEnd {
			s.CancelAtPeriodEnd = true
			return nil
		}
		now := r.now()
		s.Status = models.SubscriptionStatusCanceled
		s.CanceledAt = &now
		return nil
	})
}

func (r *subscriptionRepo) RecordUsage(ctx context.Context, subscriptionID uuid.UUID, input models.UsageMetricInput) (*models.UsageMetric, error) {
	if err := validateInput(input, nil); err != nil {
		return nil, err
	}
	if err := checkRange("period_start", "period_end", input.PeriodStart, input.PeriodEnd); err != nil {
		return nil, err
	}
	sub, err := r.subscriptions.get(ctx, subscriptionID, false)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, r.subscriptions.notFound(subscriptionID)
	}
	m := &models.UsageMetric{
		ID:                uuid.New(),
		SubscriptionID:    sub.ID,
		UserID:            sub.UserID,
		UsageMetricFields: input.UsageMetricFields,
	}
	return r.usage.insert(ctx, m)
}

func (r *subscriptionRepo) ListUsage(ctx context.Context, subscriptionID uuid.UUID, metric string) ([]*models.UsageMetric, error) {
	sub, err := r.subscriptions.get(ctx, subscriptionID, false)
	if err != nil || sub == nil {
		return nil, err
	}
	usage, err := r.usage.listByRef(ctx, sub.UserID, store.Ref(refSubscription, subscriptionID), false)
	if err != nil {
		return nil, err
	}
	if metric != "" {
		usage = keep(usage, func(m *models.UsageMetric) bool { return m.Metric == metric })
	}
	slices.SortStableFunc(usage, func(a, b *models.UsageMetric) int { return a.PeriodStart.Compare(b.PeriodStart) })
	return usage, nil
}

func (r *subscriptionRepo) GetStats(ctx context.Context, userID uuid.UUID) (*models.SubscriptionStats, error) {
	subs, err := r.subscriptions.listByOwner(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	stats := analytics.SubscriptionStats(subs)
	return &stats, nil
}
