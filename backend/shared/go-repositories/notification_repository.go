package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
)

type NotificationRepository interface {
	Repository[models.Notification, models.NotificationInput, models.NotificationUpdate, NotificationQueryOptions]

	// Send stores one notification per effective channel of the request.
	Send(ctx context.Context, req models.NotificationRequest) ([]*models.Notification, error)
	// RecordDelivery stamps SentAt, or keeps the failure when deliveryErr
	// is non-nil.
	RecordDelivery(ctx context.Context, id uuid.UUID, deliveryErr error) (*models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type notificationRepo struct {
	*env
}

func NewNotificationRepository(s store.Store, opts ...Option) NotificationRepository {
	return &notificationRepo{env: newEnv(s, opts...)}
}

func indexNotification(*models.Notification) ([]string, *uniqueKey) { return nil, nil }

var notificationList = listSpec[*models.Notification]{
	searchText: func(n *models.Notification) []string {
		return []string{n.Title, n.Message}
	},
	sortKeys: map[string]compareFunc[*models.Notification]{
		"priority": byNumber(func(n *models.Notification) int { return n.Priority.Rank() }),
		"type":     byString(func(n *models.Notification) string { return string(n.Type) }),
	},
}

func (r *notificationRepo) FindByOwnerWithSearch(ctx context.Context, userID uuid.UUID, opts NotificationQueryOptions) ([]*models.Notification, error) {
	all, err := r.notifications.listByOwner(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	all = keep(all, func(n *models.Notification) bool {
		return ptrEq(opts.Type, n.Type) && (!opts.UnreadOnly || !n.IsRead())
	})
	return paginate(all, opts.QueryOptions, notificationList), nil
}

func (r *notificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	return r.notifications.get(ctx, id, false)
}

func (r *notificationRepo) Create(ctx context.Context, userID uuid.UUID, input models.NotificationInput) (*models.Notification, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateInput(input, input.Metadata); err != nil {
		return nil, err
	}
	n := &models.Notification{ID: uuid.New(), UserID: userID, NotificationFields: input.NotificationFields}
	n.Metadata = input.Metadata.Clone()
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	if n.Channel == "" {
		n.Channel = models.NotificationChannelInApp
	}
	if n.Channel == models.NotificationChannelInApp {
		now := r.now()
		n.SentAt = &now
	}
	return r.notifications.insert(ctx, n)
}

func (r *notificationRepo) Send(ctx context.Context, req models.NotificationRequest) ([]*models.Notification, error) {
	if err := validateInput(req, req.Metadata); err != nil {
		return nil, err
	}
	channels := req.EffectiveChannels()
	for _, c := range channels {
		switch {
		case c == models.NotificationChannelEmail && req.Email == "":
			return nil, invalid("email", "validation_required", "Field 'email' is required for EMAIL delivery")
		case c == models.NotificationChannelSMS && req.Phone == "":
			return nil, invalid("phone", "validation_required", "Field 'phone' is required for SMS delivery")
		}
	}

	out := make([]*models.Notification, 0, len(channels))
	for _, c := range channels {
		n, err := r.Create(ctx, req.UserID, models.NotificationInput{NotificationFields: models.NotificationFields{
			Type:     req.Type,
			Priority: req.Priority,
			Channel:  c,
			Title:    req.Title,
			Message:  req.Message,
			Link:     req.Link,
			Metadata: req.Metadata,
		}})
		if err != nil {
			return out, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *notificationRepo) RecordDelivery(ctx context.Context, id uuid.UUID, deliveryErr error) (*models.Notification, error) {
	return r.notifications.mutate(ctx, id, func(n *models.Notification) error {
		if deliveryErr != nil {
			n.DeliveryError = deliveryErr.Error()
			return nil
		}
		now := r.now()
		n.SentAt = &now
		n.DeliveryError = ""
		return nil
	})
}

func (r *notificationRepo) Update(ctx context.Context, id uuid.UUID, patch models.NotificationUpdate) (*models.Notification, error) {
	if err := validateInput(patch, patch.Metadata); err != nil {
		return nil, err
	}
	return absentIfNotFound(r.notifications.mutate(ctx, id, func(n *models.Notification) error {
		patch.ApplyTo(n)
		return nil
	}))
}

// MarkRead is idempotent; an already read notification keeps its ReadAt.
func (r *notificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	return r.notifications.mutate(ctx, id, func(n *models.Notification) error {
		if n.UserID != userID {
			return r.notifications.notFound(id)
		}
		if n.ReadAt == nil {
			now := r.now()
			n.ReadAt = &now
		}
		return nil
	})
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	all, err := r.notifications.listByOwner(ctx, userID, false)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, n := range all {
		if n.IsRead() {
			continue
		}
		if _, err := r.MarkRead(ctx, userID, n.ID); err != nil {
			if isNotFound(err) {
				continue
			}
			return marked, err
		}
		marked++
	}
	return marked, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	all, err := r.notifications.listByOwner(ctx, userID, false)
	if err != nil {
		return 0, err
	}
	return len(keep(all, func(n *models.Notification) bool { return !n.IsRead() })), nil
}

func (r *notificationRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.notifications.hardDelete(ctx, userID, id)
}
