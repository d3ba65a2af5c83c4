package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/metrics"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

// LeaseService runs the lease lifecycle and tells the owning account about
// the moves that change occupancy.
type LeaseService interface {
	Submit(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	Withdraw(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	Activate(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	Terminate(ctx context.Context, ownerID, id uuid.UUID, input models.TerminateLeaseInput) (*models.Lease, error)
	Renew(ctx context.Context, ownerID, id uuid.UUID, input models.RenewLeaseInput) (*models.Lease, error)
	// ExpireDueLeases is the scheduled sweep. It returns how many leases
	// were expired.
	ExpireDueLeases(ctx context.Context) (int, error)
}

type leaseService struct {
	leases        repositories.LeaseRepository
	users         repositories.UserRepository
	notifications NotificationService
	emailOwners   bool
	now           func() time.Time
}

func NewLeaseService(
	repos *repositories.Repositories,
	notifications NotificationService,
	emailOwners bool,
	now func() time.Time,
) LeaseService {
	if now == nil {
		now = utils.NowUTC
	}
	return &leaseService{
		leases:        repos.Leases,
		users:         repos.Users,
		notifications: notifications,
		emailOwners:   emailOwners,
		now:           now,
	}
}

func (s *leaseService) Submit(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	return s.leases.Submit(ctx, ownerID, id)
}

func (s *leaseService) Withdraw(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	return s.leases.Withdraw(ctx, ownerID, id)
}

func (s *leaseService) Activate(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	l, err := s.leases.Activate(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, l, "Lease activated",
		fmt.Sprintf("Lease %s is now active through %s.", l.ID, l.EndDate.Format(time.DateOnly)))
	return l, nil
}

func (s *leaseService) Terminate(ctx context.Context, ownerID, id uuid.UUID, input models.TerminateLeaseInput) (*models.Lease, error) {
	l, err := s.leases.Terminate(ctx, ownerID, id, input)
	if err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, l, "Lease terminated",
		fmt.Sprintf("Lease %s was terminated: %s.", l.ID, l.TerminationReason))
	return l, nil
}

func (s *leaseService) Renew(ctx context.Context, ownerID, id uuid.UUID, input models.RenewLeaseInput) (*models.Lease, error) {
	return s.leases.Renew(ctx, ownerID, id, input)
}

func (s *leaseService) ExpireDueLeases(ctx context.Context) (int, error) {
	expired, err := s.leases.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for _, l := range expired {
		s.notifyOwner(ctx, l, "Lease expired",
			fmt.Sprintf("Lease %s ended on %s and has expired.", l.ID, l.EndDate.Format(time.DateOnly)))
	}
	metrics.LeasesExpired.Add(float64(len(expired)))
	utils.Logger.Infof("Lease expiry sweep expired %d lease(s)", len(expired))
	return len(expired), nil
}

// notifyOwner never fails the lease operation that triggered it.
func (s *leaseService) notifyOwner(ctx context.Context, l *models.Lease, title, message string) {
	req := models.NotificationRequest{
		UserID:   l.OwnerID,
		Type:     models.NotificationTypeLease,
		Priority: models.PriorityMedium,
		Title:    title,
		Message:  message,
		Link:     "/leases/" + l.ID.String(),
	}
	if s.emailOwners {
		if owner, err := s.users.FindByID(ctx, l.OwnerID); err == nil && owner != nil {
			req.Email = owner.Email
			req.Channels = []models.NotificationChannel{models.NotificationChannelInApp, models.NotificationChannelEmail}
		}
	}
	if _, err := s.notifications.Notify(ctx, req); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to notify owner %s about lease %s", l.OwnerID, l.ID)
	}
}
