package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaseSetup struct {
	*fixture
	property *models.Property
	unit     *models.Unit
	tenant   *models.Tenant
}

func newLeaseSetup(t *testing.T) *leaseSetup {
	f := newFixture(t)
	p := f.property(t, "Harbor View")
	return &leaseSetup{
		fixture:  f,
		property: p,
		unit:     f.unit(t, p.ID, "2B"),
		tenant:   f.tenant(t, "tenant@example.com"),
	}
}

func (s *leaseSetup) draft(t *testing.T, start, end time.Time) *models.Lease {
	t.Helper()
	l, err := s.repos.Leases.Create(s.ctx, s.owner, models.LeaseInput{LeaseFields: models.LeaseFields{
		UnitID:          s.unit.ID,
		TenantID:        s.tenant.ID,
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     1500,
		SecurityDeposit: 1500,
	}})
	require.NoError(t, err)
	return l
}

func (s *leaseSetup) active(t *testing.T, start, end time.Time) *models.Lease {
	t.Helper()
	l := s.draft(t, start, end)
	_, err := s.repos.Leases.Submit(s.ctx, s.owner, l.ID)
	require.NoError(t, err)
	l, err = s.repos.Leases.Activate(s.ctx, s.owner, l.ID)
	require.NoError(t, err)
	return l
}

func (s *leaseSetup) unitStatus(t *testing.T) models.UnitStatus {
	t.Helper()
	u, err := s.repos.Units.FindByID(s.ctx, s.unit.ID)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u.Status
}

func (s *leaseSetup) tenantStatus(t *testing.T) models.TenantStatus {
	t.Helper()
	tn, err := s.repos.Tenants.FindByID(s.ctx, s.tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, tn)
	return tn.Status
}

func TestLease_Lifecycle(t *testing.T) {
	s := newLeaseSetup(t)
	start, end := t0, t0.AddDate(1, 0, 0)

	l := s.draft(t, start, end)
	assert.Equal(t, models.LeaseStatusDraft, l.Status)
	assert.Equal(t, s.property.ID, l.PropertyID)
	assert.Equal(t, 1, l.RentDueDay)

	s.clock.Advance(time.Minute)
	l, err := s.repos.Leases.Submit(s.ctx, s.owner, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusPending, l.Status)
	require.NotNil(t, l.SubmittedAt)

	s.clock.Advance(time.Minute)
	l, err = s.repos.Leases.Activate(s.ctx, s.owner, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusActive, l.Status)
	assert.Equal(t, t0.Add(2*time.Minute), *l.ActivatedAt)
	assert.Equal(t, models.UnitStatusOccupied, s.unitStatus(t))
	assert.Equal(t, models.TenantStatusActive, s.tenantStatus(t))

	terminated, err := s.repos.Leases.Terminate(s.ctx, s.owner, l.ID, models.TerminateLeaseInput{
		TerminationDate: t0.AddDate(0, 6, 0),
		Reason:          "relocation",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusTerminated, terminated.Status)
	assert.Equal(t, "relocation", terminated.TerminationReason)
	assert.Equal(t, models.UnitStatusVacant, s.unitStatus(t))
	assert.Equal(t, models.TenantStatusPast, s.tenantStatus(t))
}

func TestLease_InvalidTransitionLeavesRecord(t *testing.T) {
	s := newLeaseSetup(t)
	l := s.draft(t, t0, t0.AddDate(1, 0, 0))

	_, err := s.repos.Leases.Activate(s.ctx, s.owner, l.ID)
	requireProblem(t, err, "status", CodeInvalidTransition)

	_, err = s.repos.Leases.Withdraw(s.ctx, s.owner, l.ID)
	requireProblem(t, err, "status", CodeInvalidTransition)

	got, err := s.repos.Leases.FindByID(s.ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusDraft, got.Status)
	assert.Equal(t, l.RowVersion, got.RowVersion)
	assert.Equal(t, l.UpdatedAt, got.UpdatedAt)
	assert.Equal(t, models.UnitStatusVacant, s.unitStatus(t))
}

func TestLease_TerminalStatesAreFinal(t *testing.T) {
	s := newLeaseSetup(t)
	l := s.active(t, t0, t0.AddDate(1, 0, 0))
	_, err := s.repos.Leases.Terminate(s.ctx, s.owner, l.ID, models.TerminateLeaseInput{
		TerminationDate: t0.AddDate(0, 2, 0), Reason: "sold",
	})
	require.NoError(t, err)

	_, err = s.repos.Leases.Submit(s.ctx, s.owner, l.ID)
	requireProblem(t, err, "status", CodeInvalidTransition)

	_, err = s.repos.Leases.Update(s.ctx, l.ID, models.LeaseUpdate{MonthlyRent: utils.Ptr(2000.0)})
	requireProblem(t, err, "status", CodeInvalidTransition)

	before, err := s.repos.Leases.FindByID(s.ctx, l.ID)
	require.NoError(t, err)
	_, err = s.repos.Leases.Terminate(s.ctx, s.owner, l.ID, models.TerminateLeaseInput{
		TerminationDate: t0.AddDate(0, 3, 0), Reason: "again",
	})
	requireProblem(t, err, "status", CodeInvalidTransition)
	after, err := s.repos.Leases.FindByID(s.ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, before.RowVersion, after.RowVersion)
	assert.Equal(t, "sold", after.TerminationReason)
}

func TestLease_TerminateDraftIsFinal(t *testing.T) {
	s := newLeaseSetup(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := s.draft(t, start, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.Equal(t, models.LeaseStatusDraft, l.Status)
	assert.Equal(t, l.CreatedAt, l.UpdatedAt)

	terminated, err := s.repos.Leases.Terminate(s.ctx, s.owner, l.ID, models.TerminateLeaseInput{
		TerminationDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Reason: "breach",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusTerminated, terminated.Status)
	assert.Equal(t, "breach", terminated.TerminationReason)
	// a draft never occupied the unit
	assert.Equal(t, models.UnitStatusVacant, s.unitStatus(t))
	assert.NotEqual(t, models.TenantStatusPast, s.tenantStatus(t))

	_, err = s.repos.Leases.Terminate(s.ctx, s.owner, l.ID, models.TerminateLeaseInput{
		TerminationDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Reason: "again",
	})
	requireProblem(t, err, "status", CodeInvalidTransition)

	got, err := s.repos.Leases.FindByID(s.ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusTerminated, got.Status)
	assert.Equal(t, terminated.RowVersion, got.RowVersion)
	assert.Equal(t, "breach", got.TerminationReason)
}

func TestLease_TerminatePendingDoesNotTouchOccupiedUnit(t *testing.T) {
	s := newLeaseSetup(t)
	s.active(t, t0, t0.AddDate(1, 0, 0))
	next := s.draft(t, t0.AddDate(1, 0, 1), t0.AddDate(2, 0, 0))
	_, err := s.repos.Leases.Submit(s.ctx, s.owner, next.ID)
	require.NoError(t, err)

	_, err = s.repos.Leases.Terminate(s.ctx, s.owner, next.ID, models.TerminateLeaseInput{
		TerminationDate: t0.AddDate(1, 0, 1), Reason: "declined",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UnitStatusOccupied, s.unitStatus(t))
	assert.Equal(t, models.TenantStatusActive, s.tenantStatus(t))
}

func TestLease_OtherOwnerSeesNotFound(t *testing.T) {
	s := newLeaseSetup(t)
	l := s.draft(t, t0, t0.AddDate(1, 0, 0))

	_, err := s.repos.Leases.Submit(s.ctx, uuid.New(), l.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	details, err := s.repos.Leases.FindWithDetails(s.ctx, uuid.New(), l.ID)
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestLease_CreateValidation(t *testing.T) {
	s := newLeaseSetup(t)

	_, err := s.repos.Leases.Create(s.ctx, s.owner, models.LeaseInput{LeaseFields: models.LeaseFields{
		UnitID: s.unit.ID, TenantID: s.tenant.ID,
		StartDate: t0, EndDate: t0.AddDate(0, 0, -1), MonthlyRent: 100,
	}})
	requireProblem(t, err, "end_date", CodeInvalidRange)

	_, err = s.repos.Leases.Create(s.ctx, s.owner, models.LeaseInput{LeaseFields: models.LeaseFields{
		UnitID: uuid.New(), TenantID: s.tenant.ID,
		StartDate: t0, EndDate: t0.AddDate(1, 0, 0), MonthlyRent: 100,
	}})
	requireProblem(t, err, "unit_id", CodeInvalidReference)

	_, err = s.repos.Leases.Create(s.ctx, s.owner, models.LeaseInput{LeaseFields: models.LeaseFields{
		UnitID: s.unit.ID, TenantID: s.tenant.ID,
		StartDate: t0, EndDate: t0.AddDate(1, 0, 0),
	}})
	requireProblem(t, err, "monthly_rent", "validation_gt")
}

func TestLease_OneActiveLeasePerUnit(t *testing.T) {
	s := newLeaseSetup(t)
	s.active(t, t0, t0.AddDate(1, 0, 0))

	second := s.draft(t, t0, t0.AddDate(1, 0, 0))
	_, err := s.repos.Leases.Submit(s.ctx, s.owner, second.ID)
	require.NoError(t, err)
	_, err = s.repos.Leases.Activate(s.ctx, s.owner, second.ID)
	requireProblem(t, err, "unit_id", CodeInUse)

	err = s.repos.Units.Delete(s.ctx, s.owner, s.unit.ID)
	requireProblem(t, err, "id", CodeInUse)
}

func TestLease_ExpireDue(t *testing.T) {
	s := newLeaseSetup(t)
	due := s.active(t, t0.AddDate(-1, 0, 0), t0.AddDate(0, 0, -1))

	otherUnit := s.unit
	s.unit = s.fixture.unit(t, s.property.ID, "3C")
	current := s.active(t, t0, t0.AddDate(1, 0, 0))
	s.unit = otherUnit

	expired, err := s.repos.Leases.ExpireDue(s.ctx, t0)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, due.ID, expired[0].ID)
	assert.Equal(t, models.LeaseStatusExpired, expired[0].Status)
	assert.Equal(t, models.UnitStatusVacant, s.unitStatus(t))
	// the tenant still holds the other lease
	assert.Equal(t, models.TenantStatusActive, s.tenantStatus(t))

	got, err := s.repos.Leases.FindByID(s.ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusActive, got.Status)

	again, err := s.repos.Leases.ExpireDue(s.ctx, t0)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestLease_Renew(t *testing.T) {
	s := newLeaseSetup(t)
	end := t0.AddDate(1, 0, 0)
	l := s.active(t, t0, end)

	next, err := s.repos.Leases.Renew(s.ctx, s.owner, l.ID, models.RenewLeaseInput{
		EndDate: end.AddDate(1, 0, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusDraft, next.Status)
	require.NotNil(t, next.PreviousLeaseID)
	assert.Equal(t, l.ID, *next.PreviousLeaseID)
	assert.Equal(t, end.AddDate(0, 0, 1), next.StartDate)
	assert.Equal(t, l.MonthlyRent, next.MonthlyRent)

	_, err = s.repos.Leases.Renew(s.ctx, s.owner, next.ID, models.RenewLeaseInput{EndDate: end.AddDate(2, 0, 0)})
	requireProblem(t, err, "status", CodeInvalidTransition)
}

func TestLease_FindByTenantHistory(t *testing.T) {
	s := newLeaseSetup(t)
	l := s.draft(t, t0, t0.AddDate(1, 0, 0))
	res, err := s.repos.Leases.SoftDelete(s.ctx, s.owner, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lease deleted", res.Message)

	live, err := s.repos.Leases.FindByTenant(s.ctx, s.owner, s.tenant.ID, false)
	require.NoError(t, err)
	assert.Empty(t, live)

	history, err := s.repos.Leases.FindByTenant(s.ctx, s.owner, s.tenant.ID, true)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, l.ID, history[0].ID)
}

func TestLease_FindExpiringAndStats(t *testing.T) {
	s := newLeaseSetup(t)
	s.active(t, t0.AddDate(-1, 0, 0), t0.AddDate(0, 0, 10))
	s.draft(t, t0, t0.AddDate(1, 0, 0))

	soon, err := s.repos.Leases.FindExpiring(s.ctx, s.owner, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Len(t, soon, 1)

	stats, err := s.repos.Leases.GetStats(s.ctx, s.owner)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalLeases)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Draft)
	assert.Equal(t, 1, stats.ExpiringSoon)
	assert.Equal(t, 1500.0, stats.MonthlyRentRoll)
}

func TestLease_UpdateAbsent(t *testing.T) {
	s := newLeaseSetup(t)
	got, err := s.repos.Leases.Update(s.ctx, uuid.New(), models.LeaseUpdate{Terms: utils.Ptr("x")})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLease_AnalyticsRecords(t *testing.T) {
	s := newLeaseSetup(t)
	l := s.draft(t, t0, t0.AddDate(1, 0, 0))

	got, err := s.repos.Leases.GetAnalytics(s.ctx, s.owner, AnalyticsOptions{PropertyID: &s.property.ID})
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, l.ID, got.Records[0].ID)

	elsewhere := uuid.New()
	got, err = s.repos.Leases.GetAnalytics(s.ctx, s.owner, AnalyticsOptions{PropertyID: &elsewhere})
	require.NoError(t, err)
	assert.Empty(t, got.Records)

	s.clock.Advance(31 * 24 * time.Hour)
	got, err = s.repos.Leases.GetAnalytics(s.ctx, s.owner, AnalyticsOptions{})
	require.NoError(t, err)
	assert.Empty(t, got.Records)
}
