package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusTrialing   SubscriptionStatus = "TRIALING"
	SubscriptionStatusActive     SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue    SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCanceled   SubscriptionStatus = "CANCELED"
	SubscriptionStatusIncomplete SubscriptionStatus = "INCOMPLETE"
	SubscriptionStatusUnpaid     SubscriptionStatus = "UNPAID"
)

var subscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusTrialing, SubscriptionStatusActive, SubscriptionStatusPastDue,
	SubscriptionStatusCanceled, SubscriptionStatusIncomplete, SubscriptionStatusUnpaid,
}

func (SubscriptionStatus) Values() []SubscriptionStatus { return slices.Clone(subscriptionStatuses) }
func (s SubscriptionStatus) Valid() bool                { return slices.Contains(subscriptionStatuses, s) }
func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	return parseEnum("subscription status", s, subscriptionStatuses)
}

// IsLive reports whether the subscription currently grants access.
func (s SubscriptionStatus) IsLive() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrialing
}

type PlanTier string

const (
	PlanTierFree    PlanTier = "FREE"
	PlanTierStarter PlanTier = "STARTER"
	PlanTierGrowth  PlanTier = "GROWTH"
	PlanTierMax     PlanTier = "MAX"
)

var planTiers = []PlanTier{PlanTierFree, PlanTierStarter, PlanTierGrowth, PlanTierMax}

func (PlanTier) Values() []PlanTier            { return slices.Clone(planTiers) }
func (t PlanTier) Valid() bool                 { return slices.Contains(planTiers, t) }
func ParsePlanTier(s string) (PlanTier, error) { return parseEnum("plan tier", s, planTiers) }

type SubscriptionFields struct {
	PlanTier             PlanTier           `json:"plan_tier" validate:"required,enum"`
	Status               SubscriptionStatus `json:"status" validate:"omitempty,enum"`
	StripeCustomerID     string             `json:"stripe_customer_id" validate:"required,max=255"`
	StripeSubscriptionID string             `json:"stripe_subscription_id" validate:"required,max=255"`
	StripePriceID        string             `json:"stripe_price_id" validate:"omitempty,max=255"`
	CurrentPeriodStart   time.Time          `json:"current_period_start" validate:"required"`
	CurrentPeriodEnd     time.Time          `json:"current_period_end" validate:"required"`
	CancelAtPeriodEnd    bool               `json:"cancel_at_period_end"`
	TrialEnd             *time.Time         `json:"trial_end"`
	Metadata             Metadata           `json:"metadata"`
}

type Subscription struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	CanceledAt *time.Time `json:"canceled_at"`
	SubscriptionFields
	Timestamps
	Versioned
}

func (s *Subscription) GetID() uuid.UUID      { return s.ID }
func (s *Subscription) GetOwnerID() uuid.UUID { return s.UserID }

type SubscriptionInput struct {
	SubscriptionFields
}

type SubscriptionUpdate struct {
	PlanTier           *PlanTier           `json:"plan_tier" validate:"omitempty,enum"`
	Status             *SubscriptionStatus `json:"status" validate:"omitempty,enum"`
	StripePriceID      *string             `json:"stripe_price_id" validate:"omitempty,max=255"`
	CurrentPeriodStart *time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   *time.Time          `json:"current_period_end"`
	CancelAtPeriodEnd  *bool               `json:"cancel_at_period_end"`
	TrialEnd           *time.Time          `json:"trial_end"`
	Metadata           Metadata            `json:"metadata"`
}

func (u *SubscriptionUpdate) ApplyTo(s *Subscription) {
	setIf(&s.PlanTier, u.PlanTier)
	setIf(&s.Status, u.Status)
	setIf(&s.StripePriceID, u.StripePriceID)
	setIf(&s.CurrentPeriodStart, u.CurrentPeriodStart)
	setIf(&s.CurrentPeriodEnd, u.CurrentPeriodEnd)
	setIf(&s.CancelAtPeriodEnd, u.CancelAtPeriodEnd)
	setPtrIf(&s.TrialEnd, u.TrialEnd)
	if u.Metadata != nil {
		s.Metadata = u.Metadata.Clone()
	}
}

// UsageMetricFields describe one metered quantity over a billing period.
type UsageMetricFields struct {
	Metric      string    `json:"metric" validate:"required,max=100"`
	Quantity    int64     `json:"quantity" validate:"gte=0"`
	PeriodStart time.Time `json:"period_start" validate:"required"`
	PeriodEnd   time.Time `json:"period_end" validate:"required"`
}

type UsageMetric struct {
	ID             uuid.UUID `json:"id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	UserID         uuid.UUID `json:"user_id"`
	UsageMetricFields
	Timestamps
	Versioned
}

func (m *UsageMetric) GetID() uuid.UUID      { return m.ID }
func (m *UsageMetric) GetOwnerID() uuid.UUID { return m.UserID }

type UsageMetricInput struct {
	UsageMetricFields
}

const (
	UsageMetricProperties = "properties"
	UsageMetricUnits      = "units"
	UsageMetricAPICalls   = "api_calls"
)
