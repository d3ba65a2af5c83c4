package services

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/poofware/mono-repo/backend/services/property-service/internal/metrics"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

var ErrChannelNotConfigured = errors.New("delivery channel not configured")

const emailHTML = `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; color: #333;">
  <h2>%s</h2>
  <p>%s</p>
  %s
  <p style="font-size: 12px; color: #6c757d;">%s</p>
</body>
</html>`

type NotificationService interface {
	// Notify stores one notification per channel and delivers the EMAIL
	// and SMS ones. A failed delivery is recorded on the notification and
	// does not fail the call.
	Notify(ctx context.Context, req models.NotificationRequest) ([]*models.Notification, error)
}

type notificationService struct {
	repo  repositories.NotificationRepository
	email EmailSender
	sms   SMSSender
}

// NewNotificationService accepts nil senders; deliveries on those channels
// are recorded as failed.
func NewNotificationService(repo repositories.NotificationRepository, email EmailSender, sms SMSSender) NotificationService {
	return &notificationService{repo: repo, email: email, sms: sms}
}

func (s *notificationService) Notify(ctx context.Context, req models.NotificationRequest) ([]*models.Notification, error) {
	created, err := s.repo.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	for i, n := range created {
		if n.Channel == models.NotificationChannelInApp {
			continue
		}
		deliveryErr := s.deliver(ctx, req, n)
		result := "sent"
		if deliveryErr != nil {
			result = "failed"
			utils.Logger.WithError(deliveryErr).Warnf("Failed %s delivery of notification %s", n.Channel, n.ID)
		}
		metrics.NotificationsDelivered.WithLabelValues(string(n.Channel), result).Inc()

		updated, err := s.repo.RecordDelivery(ctx, n.ID, deliveryErr)
		if err != nil {
			return created, err
		}
		created[i] = updated
	}
	return created, nil
}

func (s *notificationService) deliver(ctx context.Context, req models.NotificationRequest, n *models.Notification) error {
	switch n.Channel {
	case models.NotificationChannelEmail:
		if s.email == nil {
			return fmt.Errorf("%w: email", ErrChannelNotConfigured)
		}
		link := ""
		if n.Link != "" {
			link = fmt.Sprintf(`<p><a href="%s">Open in Keystone</a></p>`, html.EscapeString(n.Link))
		}
		body := fmt.Sprintf(emailHTML,
			html.EscapeString(n.Title), html.EscapeString(n.Message), link, utils.OrganizationName)
		return s.email.SendEmail(ctx, req.Email, n.Title, n.Message, body)
	case models.NotificationChannelSMS:
		if s.sms == nil {
			return fmt.Errorf("%w: sms", ErrChannelNotConfigured)
		}
		return s.sms.SendSMS(ctx, req.Phone, n.Title+" :: "+n.Message)
	default:
		return nil
	}
}
