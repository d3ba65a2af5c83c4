package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeLease       NotificationType = "LEASE"
	NotificationTypeMaintenance NotificationType = "MAINTENANCE"
	NotificationTypePayment     NotificationType = "PAYMENT"
	NotificationTypeSystem      NotificationType = "SYSTEM"
)

var notificationTypes = []NotificationType{
	NotificationTypeLease, NotificationTypeMaintenance, NotificationTypePayment, NotificationTypeSystem,
}

func (NotificationType) Values() []NotificationType { return slices.Clone(notificationTypes) }
func (t NotificationType) Valid() bool              { return slices.Contains(notificationTypes, t) }
func ParseNotificationType(s string) (NotificationType, error) {
	return parseEnum("notification type", s, notificationTypes)
}

type NotificationChannel string

const (
	NotificationChannelInApp NotificationChannel = "IN_APP"
	NotificationChannelEmail NotificationChannel = "EMAIL"
	NotificationChannelSMS   NotificationChannel = "SMS"
)

var notificationChannels = []NotificationChannel{
	NotificationChannelInApp, NotificationChannelEmail, NotificationChannelSMS,
}

func (NotificationChannel) Values() []NotificationChannel { return slices.Clone(notificationChannels) }
func (c NotificationChannel) Valid() bool                 { return slices.Contains(notificationChannels, c) }
func ParseNotificationChannel(s string) (NotificationChannel, error) {
	return parseEnum("notification channel", s, notificationChannels)
}

type NotificationFields struct {
	Type     NotificationType     `json:"type" validate:"required,enum"`
	Priority NotificationPriority `json:"priority" validate:"omitempty,enum"`
	Channel  NotificationChannel  `json:"channel" validate:"omitempty,enum"`
	Title    string               `json:"title" validate:"required,max=200"`
	Message  string               `json:"message" validate:"required,max=5000"`
	Link     string               `json:"link" validate:"omitempty,max=2000"`
	Metadata Metadata             `json:"metadata"`
}

type Notification struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	ReadAt        *time.Time `json:"read_at"`
	SentAt        *time.Time `json:"sent_at"`
	DeliveryError string     `json:"delivery_error"`
	NotificationFields
	Timestamps
	Versioned
}

func (n *Notification) GetID() uuid.UUID      { return n.ID }
func (n *Notification) GetOwnerID() uuid.UUID { return n.UserID }
func (n *Notification) IsRead() bool          { return n.ReadAt != nil }

type NotificationInput struct {
	NotificationFields
}

type NotificationUpdate struct {
	Priority *NotificationPriority `json:"priority" validate:"omitempty,enum"`
	Title    *string               `json:"title" validate:"omitempty,max=200"`
	Message  *string               `json:"message" validate:"omitempty,max=5000"`
	Link     *string               `json:"link" validate:"omitempty,max=2000"`
	Metadata Metadata              `json:"metadata"`
}

func (u *NotificationUpdate) ApplyTo(n *Notification) {
	setIf(&n.Priority, u.Priority)
	setIf(&n.Title, u.Title)
	setIf(&n.Message, u.Message)
	setIf(&n.Link, u.Link)
	if u.Metadata != nil {
		n.Metadata = u.Metadata.Clone()
	}
}

// NotificationRequest fans one message out to one notification per
// channel. Email and Phone address the external channels.
type NotificationRequest struct {
	UserID   uuid.UUID             `json:"user_id" validate:"required"`
	Type     NotificationType      `json:"type" validate:"required,enum"`
	Priority NotificationPriority  `json:"priority" validate:"omitempty,enum"`
	Channels []NotificationChannel `json:"channels" validate:"omitempty,dive,enum"`
	Title    string                `json:"title" validate:"required,max=200"`
	Message  string                `json:"message" validate:"required,max=5000"`
	Link     string                `json:"link" validate:"omitempty,max=2000"`
	Email    string                `json:"email" validate:"omitempty,email"`
	Phone    string                `json:"phone" validate:"omitempty,e164"`
	Metadata Metadata              `json:"metadata"`
}

// EffectiveChannels defaults to in-app delivery and removes duplicates.
func (r *NotificationRequest) EffectiveChannels() []NotificationChannel {
	if len(r.Channels) == 0 {
		return []NotificationChannel{NotificationChannelInApp}
	}
	out := make([]NotificationChannel, 0, len(r.Channels))
	for _, c := range r.Channels {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
