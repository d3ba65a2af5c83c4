package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	to, subject, body string
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeEmail) SendEmail(_ context.Context, to, subject, plainText, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{to: to, subject: subject, body: plainText})
	return nil
}

type fakeSMS struct {
	sent []sentMessage
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	return nil
}

func TestNotify_DeliversExternalChannels(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	owner := h.CreateTestOwner("notify")
	email, sms := &fakeEmail{}, &fakeSMS{}
	svc := NewNotificationService(h.Repos.Notifications, email, sms)

	out, err := svc.Notify(h.Ctx, models.NotificationRequest{
		UserID:   owner.ID,
		Type:     models.NotificationTypeMaintenance,
		Channels: []models.NotificationChannel{models.NotificationChannelInApp, models.NotificationChannelEmail, models.NotificationChannelSMS},
		Title:    "Water shutoff",
		Message:  "Tomorrow 9-11am",
		Email:    "owner@example.com",
		Phone:    "+15125550100",
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, n := range out {
		assert.NotNil(t, n.SentAt, "channel %s", n.Channel)
		assert.Empty(t, n.DeliveryError)
	}
	require.Len(t, email.sent, 1)
	assert.Equal(t, "owner@example.com", email.sent[0].to)
	require.Len(t, sms.sent, 1)
	assert.Equal(t, "Water shutoff :: Tomorrow 9-11am", sms.sent[0].body)
}

func TestNotify_RecordsFailures(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	owner := h.CreateTestOwner("notify")
	svc := NewNotificationService(h.Repos.Notifications, &fakeEmail{err: errors.New("smtp down")}, nil)

	out, err := svc.Notify(h.Ctx, models.NotificationRequest{
		UserID:   owner.ID,
		Type:     models.NotificationTypeSystem,
		Channels: []models.NotificationChannel{models.NotificationChannelEmail, models.NotificationChannelSMS},
		Title:    "Hi",
		Message:  "there",
		Email:    "owner@example.com",
		Phone:    "+15125550100",
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Nil(t, out[0].SentAt)
	assert.Equal(t, "smtp down", out[0].DeliveryError)
	assert.Contains(t, out[1].DeliveryError, ErrChannelNotConfigured.Error())
}

func TestNotify_ValidationPassesThrough(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	svc := NewNotificationService(h.Repos.Notifications, nil, nil)
	_, err := svc.Notify(h.Ctx, models.NotificationRequest{
		UserID:   h.CreateTestOwner("x").ID,
		Type:     models.NotificationTypeSystem,
		Channels: []models.NotificationChannel{models.NotificationChannelSMS},
		Title:    "t",
		Message:  "m",
	})
	assert.ErrorIs(t, err, repositories.ErrValidation)
}

func TestLeaseService_ExpireDueLeases(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	owner := h.CreateTestOwner("leases")
	prop := h.CreateTestProperty(owner.ID, "Elm Court")
	unit := h.CreateTestUnit(owner.ID, prop.ID, "1A", 1200)
	tenant := h.CreateTestTenant(owner.ID, "resident")
	now := h.Clock.Now()
	lease := h.CreateActiveLease(owner.ID, unit, tenant.ID, now.AddDate(-1, 0, 0), now.AddDate(0, 0, 2))

	email := &fakeEmail{}
	notifications := NewNotificationService(h.Repos.Notifications, email, nil)
	svc := NewLeaseService(h.Repos, notifications, true, h.Clock.Now)

	n, err := svc.ExpireDueLeases(h.Ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	h.Clock.Advance(72 * time.Hour)
	n, err = svc.ExpireDueLeases(h.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := h.Repos.Leases.FindByID(h.Ctx, lease.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusExpired, got.Status)

	unread, err := h.Repos.Notifications.CountUnread(h.Ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread, "in-app plus email notification")
	require.Len(t, email.sent, 1)
	assert.Equal(t, owner.Email, email.sent[0].to)
	assert.Equal(t, "Lease expired", email.sent[0].subject)
}

func TestLeaseService_ActivateNotifiesInApp(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	owner := h.CreateTestOwner("leases")
	prop := h.CreateTestProperty(owner.ID, "Elm Court")
	unit := h.CreateTestUnit(owner.ID, prop.ID, "1A", 1200)
	tenant := h.CreateTestTenant(owner.ID, "resident")
	svc := NewLeaseService(h.Repos, NewNotificationService(h.Repos.Notifications, nil, nil), false, h.Clock.Now)

	now := h.Clock.Now()
	l, err := h.Repos.Leases.Create(h.Ctx, owner.ID, models.LeaseInput{LeaseFields: models.LeaseFields{
		UnitID: unit.ID, TenantID: tenant.ID, StartDate: now, EndDate: now.AddDate(1, 0, 0), MonthlyRent: 1200,
	}})
	require.NoError(t, err)

	_, err = svc.Activate(h.Ctx, owner.ID, l.ID)
	require.ErrorIs(t, err, repositories.ErrValidation)

	_, err = svc.Submit(h.Ctx, owner.ID, l.ID)
	require.NoError(t, err)
	l, err = svc.Activate(h.Ctx, owner.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusActive, l.Status)

	list, err := h.Repos.Notifications.FindByOwnerWithSearch(h.Ctx, owner.ID, repositories.NotificationQueryOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Lease activated", list[0].Title)
	assert.Equal(t, models.NotificationChannelInApp, list[0].Channel)
}

func TestDashboard(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	owner := h.CreateTestOwner("dash")
	prop := h.CreateTestProperty(owner.ID, "Elm Court")
	unit := h.CreateTestUnit(owner.ID, prop.ID, "1A", 1200)
	h.CreateTestUnit(owner.ID, prop.ID, "1B", 1300)
	tenant := h.CreateTestTenant(owner.ID, "resident")
	now := h.Clock.Now()
	h.CreateActiveLease(owner.ID, unit, tenant.ID, now, now.AddDate(1, 0, 0))

	d, err := NewDashboardService(h.Repos, 0, h.Clock.Now).GetDashboard(h.Ctx, owner.ID, repositories.AnalyticsOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.Timeframe30Days, d.Timeframe)
	assert.Equal(t, 1, d.Properties.TotalProperties)
	assert.Equal(t, 2, d.Units.TotalUnits)
	assert.Equal(t, 1, d.Leases.Active)
	assert.Equal(t, 50.0, d.PropertyAnalytics.OccupancyRate)
}

func TestDashboard_Cached(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	owner := h.CreateTestOwner("cached")
	h.CreateTestProperty(owner.ID, "Birch Row")

	svc := NewDashboardService(h.Repos, time.Minute, h.Clock.Now)
	first, err := svc.GetDashboard(h.Ctx, owner.ID, repositories.AnalyticsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Properties.TotalProperties)

	h.CreateTestProperty(owner.ID, "Cedar Row")
	again, err := svc.GetDashboard(h.Ctx, owner.ID, repositories.AnalyticsOptions{})
	require.NoError(t, err)
	assert.Same(t, first, again)

	other, err := svc.GetDashboard(h.Ctx, owner.ID, repositories.AnalyticsOptions{Timeframe: models.Timeframe7Days})
	require.NoError(t, err)
	assert.Equal(t, 2, other.Properties.TotalProperties)

	h.Clock.Advance(2 * time.Minute)
	fresh, err := svc.GetDashboard(h.Ctx, owner.ID, repositories.AnalyticsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Properties.TotalProperties)
}
