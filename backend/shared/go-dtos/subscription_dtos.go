package dtos

import (
	"errors"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
)

// Subscription is the transport form of models.Subscription.
type Subscription struct {
	ID                   uuid.UUID                 `json:"id"`
	UserID               uuid.UUID                 `json:"user_id"`
	PlanTier             models.PlanTier           `json:"plan_tier"`
	Status               models.SubscriptionStatus `json:"status"`
	StripeCustomerID     string                    `json:"stripe_customer_id"`
	StripeSubscriptionID string                    `json:"stripe_subscription_id"`
	StripePriceID        string                    `json:"stripe_price_id"`
	CurrentPeriodStart   string                    `json:"current_period_start"`
	CurrentPeriodEnd     string                    `json:"current_period_end"`
	CancelAtPeriodEnd    bool                      `json:"cancel_at_period_end"`
	TrialEnd             *string                   `json:"trial_end"`
	CanceledAt           *string                   `json:"canceled_at"`
	Metadata             models.Metadata           `json:"metadata"`
	CreatedAt            string                    `json:"created_at"`
	UpdatedAt            string                    `json:"updated_at"`
	RowVersion           int64                     `json:"row_version"`
}

func SerializeSubscription(s *models.Subscription) Subscription {
	return Subscription{
		ID:                   s.ID,
		UserID:               s.UserID,
		PlanTier:             s.PlanTier,
		Status:               s.Status,
		StripeCustomerID:     s.StripeCustomerID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		StripePriceID:        s.StripePriceID,
		CurrentPeriodStart:   FormatTime(s.CurrentPeriodStart),
		CurrentPeriodEnd:     FormatTime(s.CurrentPeriodEnd),
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		TrialEnd:             FormatTimePtr(s.TrialEnd),
		CanceledAt:           FormatTimePtr(s.CanceledAt),
		Metadata:             s.Metadata.Clone(),
		CreatedAt:            FormatTime(s.CreatedAt),
		UpdatedAt:            FormatTime(s.UpdatedAt),
		RowVersion:           s.RowVersion,
	}
}

func DeserializeSubscription(d Subscription) (*models.Subscription, error) {
	start, err1 := ParseTime("current_period_start", d.CurrentPeriodStart)
	end, err2 := ParseTime("current_period_end", d.CurrentPeriodEnd)
	trialEnd, err3 := ParseTimePtr("trial_end", d.TrialEnd)
	canceledAt, err4 := ParseTimePtr("canceled_at", d.CanceledAt)
	created, err5 := ParseTime("created_at", d.CreatedAt)
	updated, err6 := ParseTime("updated_at", d.UpdatedAt)
	if err := errors.Join(err1, err2, err3, err4, err5, err6); err != nil {
		return nil, err
	}

	return &models.Subscription{
		ID:         d.ID,
		UserID:     d.UserID,
		CanceledAt: canceledAt,
		SubscriptionFields: models.SubscriptionFields{
			PlanTier:             d.PlanTier,
			Status:               d.Status,
			StripeCustomerID:     d.StripeCustomerID,
			StripeSubscriptionID: d.StripeSubscriptionID,
			StripePriceID:        d.StripePriceID,
			CurrentPeriodStart:   start,
			CurrentPeriodEnd:     end,
			CancelAtPeriodEnd:    d.CancelAtPeriodEnd,
			TrialEnd:             trialEnd,
			Metadata:             d.Metadata.Clone(),
		},
		Timestamps: models.Timestamps{CreatedAt: created, UpdatedAt: updated},
		Versioned:  models.Versioned{RowVersion: d.RowVersion},
	}, nil
}

func SerializeSubscriptions(subs []*models.Subscription) []Subscription {
	return serializeAll(subs, SerializeSubscription)
}

func DeserializeSubscriptions(ds []Subscription) ([]*models.Subscription, error) {
	return deserializeAll(ds, DeserializeSubscription)
}

// UsageMetric is the transport form of models.UsageMetric.
type UsageMetric struct {
	ID             uuid.UUID `json:"id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	UserID         uuid.UUID `json:"user_id"`
	Metric         string    `json:"metric"`
	Quantity       int64     `json:"quantity"`
	PeriodStart    string    `json:"period_start"`
	PeriodEnd      string    `json:"period_end"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
	RowVersion     int64     `json:"row_version"`
}

func SerializeUsageMetric(m *models.UsageMetric) UsageMetric {
	return UsageMetric{
		ID:             m.ID,
		SubscriptionID: m.SubscriptionID,
		UserID:         m.UserID,
		Metric:         m.Metric,
		Quantity:       m.Quantity,
		PeriodStart:    FormatTime(m.PeriodStart),
		PeriodEnd:      FormatTime(m.PeriodEnd),
		CreatedAt:      FormatTime(m.CreatedAt),
		UpdatedAt:      FormatTime(m.UpdatedAt),
		RowVersion:     m.RowVersion,
	}
}

func DeserializeUsageMetric(d UsageMetric) (*models.UsageMetric, error) {
	start, err1 := ParseTime("period_start", d.PeriodStart)
	end, err2 := ParseTime("period_end", d.PeriodEnd)
	created, err3 := ParseTime("created_at", d.CreatedAt)
	updated, err4 := ParseTime("updated_at", d.UpdatedAt)
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return nil, err
	}
	return &models.UsageMetric{
		ID:             d.ID,
		SubscriptionID: d.SubscriptionID,
		UserID:         d.UserID,
		UsageMetricFields: models.UsageMetricFields{
			Metric:      d.Metric,
			Quantity:    d.Quantity,
			PeriodStart: start,
			PeriodEnd:   end,
		},
		Timestamps: models.Timestamps{CreatedAt: created, UpdatedAt: updated},
		Versioned:  models.Versioned{RowVersion: d.RowVersion},
	}, nil
}

func SerializeUsageMetrics(ms []*models.UsageMetric) []UsageMetric {
	return serializeAll(ms, SerializeUsageMetric)
}

func DeserializeUsageMetrics(ds []UsageMetric) ([]*models.UsageMetric, error) {
	return deserializeAll(ds, DeserializeUsageMetric)
}
