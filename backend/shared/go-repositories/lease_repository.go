package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-analytics"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

/*
LeaseRepository owns the lease lifecycle:

	DRAFT ──Submit──▶ PENDING ──Activate──▶ ACTIVE ──Terminate──▶ TERMINATED
	  ▲                  │                    │
	  └──────Withdraw────┘                    └──ExpireDue──▶ EXPIRED

DRAFT and PENDING leases can also be terminated; that never touches the
unit or tenant. Renew starts a new DRAFT from an ACTIVE or EXPIRED lease. The lifecycle
operations return *NotFoundError when the lease is missing or belongs to
another owner, and a *ValidationError with code invalid_transition when the
move is not allowed; the record is left untouched in both cases.
*/
type LeaseRepository interface {
	Repository[models.Lease, models.LeaseInput, models.LeaseUpdate, LeaseQueryOptions]

	FindByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, opts QueryOptions) ([]*models.Lease, error)
	FindByUnit(ctx context.Context, ownerID, unitID uuid.UUID) ([]*models.Lease, error)
	// FindByTenant includes soft-deleted leases when includeHistory is set.
	FindByTenant(ctx context.Context, ownerID, tenantID uuid.UUID, includeHistory bool) ([]*models.Lease, error)
	// FindExpiring lists active leases ending within the given horizon,
	// soonest first.
	FindExpiring(ctx context.Context, ownerID uuid.UUID, within time.Duration) ([]*models.Lease, error)
	FindWithDetails(ctx context.Context, ownerID, id uuid.UUID) (*models.LeaseWithDetails, error)

	Submit(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	Withdraw(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	Activate(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	Terminate(ctx context.Context, ownerID, id uuid.UUID, input models.TerminateLeaseInput) (*models.Lease, error)
	Renew(ctx context.Context, ownerID, id uuid.UUID, input models.RenewLeaseInput) (*models.Lease, error)
	// ExpireDue moves every active lease whose end date is before now to
	// EXPIRED, across all owners, and returns the leases it moved.
	ExpireDue(ctx context.Context, now time.Time) ([]*models.Lease, error)

	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (models.DeleteResult, error)
	GetStats(ctx context.Context, ownerID uuid.UUID) (*models.LeaseStats, error)
	GetAnalytics(ctx context.Context, ownerID uuid.UUID, opts AnalyticsOptions) (*models.LeaseAnalytics, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type leaseRepo struct {
	*env
}

func NewLeaseRepository(s store.Store, opts ...Option) LeaseRepository {
	return &leaseRepo{env: newEnv(s, opts...)}
}

func indexLease(l *models.Lease) ([]string, *uniqueKey) {
	return []string{
		store.Ref(refUnit, l.UnitID),
		store.Ref(refTenant, l.TenantID),
		store.Ref(refProperty, l.PropertyID),
	}, nil
}

var leaseList = listSpec[*models.Lease]{
	searchText: func(l *models.Lease) []string {
		return []string{l.Terms, l.TerminationReason, string(l.Status)}
	},
	sortKeys: map[string]compareFunc[*models.Lease]{
		"startDate":   byTime(func(l *models.Lease) time.Time { return l.StartDate }),
		"endDate":     byTime(func(l *models.Lease) time.Time { return l.EndDate }),
		"monthlyRent": byNumber(func(l *models.Lease) float64 { return l.MonthlyRent }),
		"status":      byString(func(l *models.Lease) string { return string(l.Status) }),
	},
}

/* ---------- Reads ---------- */

func (r *leaseRepo) FindByOwnerWithSearch(ctx context.Context, ownerID uuid.UUID, opts LeaseQueryOptions) ([]*models.Lease, error) {
	f := ownerFilter(ownerID)
	switch {
	case opts.UnitID != nil:
		f.Ref = store.Ref(refUnit, *opts.UnitID)
	case opts.TenantID != nil:
		f.Ref = store.Ref(refTenant, *opts.TenantID)
	case opts.PropertyID != nil:
		f.Ref = store.Ref(refProperty, *opts.PropertyID)
	}
	leases, err := r.leases.list(ctx, f)
	if err != nil {
		return nil, err
	}
	leases = keep(leases, func(l *models.Lease) bool {
		return ptrEq(opts.PropertyID, l.PropertyID) &&
			ptrEq(opts.UnitID, l.UnitID) &&
			ptrEq(opts.TenantID, l.TenantID) &&
			ptrEq(opts.Status, l.Status) &&
			inRange(l.StartDate, opts.StartFrom, opts.StartTo) &&
			inRange(l.EndDate, opts.EndFrom, opts.EndTo)
	})
	return paginate(leases, opts.QueryOptions, leaseList), nil
}

func (r *leaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	return r.leases.get(ctx, id, false)
}

func (r *leaseRepo) FindByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, opts QueryOptions) ([]*models.Lease, error) {
	return r.FindByOwnerWithSearch(ctx, ownerID, LeaseQueryOptions{QueryOptions: opts, PropertyID: &propertyID})
}

func (r *leaseRepo) FindByUnit(ctx context.Context, ownerID, unitID uuid.UUID) ([]*models.Lease, error) {
	leases, err := r.leases.listByRef(ctx, ownerID, store.Ref(refUnit, unitID), false)
	if err != nil {
		return nil, err
	}
	sortByStart(leases)
	return leases, nil
}

func (r *leaseRepo) FindByTenant(ctx context.Context, ownerID, tenantID uuid.UUID, includeHistory bool) ([]*models.Lease, error) {
	leases, err := r.leases.listByRef(ctx, ownerID, store.Ref(refTenant, tenantID), includeHistory)
	if err != nil {
		return nil, err
	}
	sortByStart(leases)
	return leases, nil
}

func (r *leaseRepo) FindExpiring(ctx context.Context, ownerID uuid.UUID, within time.Duration) ([]*models.Lease, error) {
	leases, err := r.leases.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	now := r.now()
	leases = keep(leases, func(l *models.Lease) bool { return l.ExpiresWithin(now, within) })
	slices.SortStableFunc(leases, func(a, b *models.Lease) int { return a.EndDate.Compare(b.EndDate) })
	return leases, nil
}

func (r *leaseRepo) FindWithDetails(ctx context.Context, ownerID, id uuid.UUID) (*models.LeaseWithDetails, error) {
	l, err := r.leases.getOwned(ctx, ownerID, id, false)
	if err != nil || l == nil {
		return nil, err
	}
	out := &models.LeaseWithDetails{Lease: l}
	if out.Unit, err = r.units.get(ctx, l.UnitID, true); err != nil {
		return nil, err
	}
	if out.Property, err = r.properties.get(ctx, l.PropertyID, true); err != nil {
		return nil, err
	}
	if out.Tenant, err = r.tenants.get(ctx, l.TenantID, true); err != nil {
		return nil, err
	}
	return out, nil
}

func sortByStart(leases []*models.Lease) {
	slices.SortStableFunc(leases, func(a, b *models.Lease) int { return a.StartDate.Compare(b.StartDate) })
}

/* ---------- Create / Update ---------- */

func (r *leaseRepo) Create(ctx context.Context, ownerID uuid.UUID, input models.LeaseInput) (*models.Lease, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validateInput(input, input.Metadata); err != nil {
		return nil, err
	}
	if err := checkRange("start_date", "end_date", input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	unit, err := r.units.getOwned(ctx, ownerID, input.UnitID, false)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, invalid("unit_id", CodeInvalidReference, "unit "+input.UnitID.String()+" does not exist")
	}
	tenant, err := r.tenants.getOwned(ctx, ownerID, input.TenantID, false)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, invalid("tenant_id", CodeInvalidReference, "tenant "+input.TenantID.String()+" does not exist")
	}

	l := &models.Lease{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		PropertyID:  unit.PropertyID,
		Status:      models.LeaseStatusDraft,
		LeaseFields: input.LeaseFields,
	}
	l.Metadata = input.Metadata.Clone()
	if l.RentDueDay == 0 {
		l.RentDueDay = 1
	}
	return r.leases.insert(ctx, l)
}

// Update edits terms. Finished leases are read-only.
func (r *leaseRepo) Update(ctx context.Context, id uuid.UUID, patch models.LeaseUpdate) (*models.Lease, error) {
	if err := validateInput(patch, patch.Metadata); err != nil {
		return nil, err
	}
	return absentIfNotFound(r.leases.mutate(ctx, id, func(l *models.Lease) error {
		if l.Status.IsTerminal() {
			return invalid("status", CodeInvalidTransition, fmt.Sprintf("lease is %s and cannot be modified", l.Status))
		}
		patch.ApplyTo(l)
		return checkRange("start_date", "end_date", l.StartDate, l.EndDate)
	}))
}

/* ---------- Lifecycle ---------- */

// transition moves an owned lease to next, running apply before the write.
func (r *leaseRepo) transition(
	ctx context.Context,
	ownerID, id uuid.UUID,
	next models.LeaseStatus,
	apply func(l *models.Lease, now time.Time) error,
) (*models.Lease, error) {
	return r.leases.mutate(ctx, id, func(l *models.Lease) error {
		if l.OwnerID != ownerID {
			return r.leases.notFound(id)
		}
		if !l.Status.CanTransitionTo(next) {
			return invalidTransition(l.Status, next)
		}
		l.Status = next
		if apply != nil {
			return apply(l, r.now())
		}
		return nil
	})
}

func (r *leaseRepo) Submit(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	return r.transition(ctx, ownerID, id, models.LeaseStatusPending, func(l *models.Lease, now time.Time) error {
		l.SubmittedAt = &now
		return nil
	})
}

func (r *leaseRepo) Withdraw(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	return r.transition(ctx, ownerID, id, models.LeaseStatusDraft, func(l *models.Lease, _ time.Time) error {
		l.SubmittedAt = nil
		return nil
	})
}

// Activate occupies the unit and marks the tenant active. A unit holds at
// most one active lease.
func (r *leaseRepo) Activate(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	current, err := r.leases.getOwned(ctx, ownerID, id, false)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, r.leases.notFound(id)
	}
	if occupied, err := activeLeaseForUnit(ctx, r.env, ownerID, current.UnitID); err != nil {
		return nil, err
	} else if occupied != nil && occupied.ID != id {
		return nil, invalid("unit_id", CodeInUse, "unit already has active lease "+occupied.ID.String())
	}

	l, err := r.transition(ctx, ownerID, id, models.LeaseStatusActive, func(l *models.Lease, now time.Time) error {
		l.ActivatedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := r.setUnitStatus(ctx, l.UnitID, models.UnitStatusOccupied); err != nil {
		return nil, err
	}
	if err := r.setTenantStatus(ctx, l.TenantID, models.TenantStatusActive); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *leaseRepo) Terminate(ctx context.Context, ownerID, id uuid.UUID, input models.TerminateLeaseInput) (*models.Lease, error) {
	if err := validateInput(input, nil); err != nil {
		return nil, err
	}
	var wasActive bool
	l, err := r.transition(ctx, ownerID, id, models.LeaseStatusTerminated, func(l *models.Lease, _ time.Time) error {
		wasActive = l.ActivatedAt != nil
		if input.TerminationDate.Before(l.StartDate) {
			return invalid("termination_date", CodeInvalidRange, "termination_date must not be before start_date")
		}
		at := input.TerminationDate.UTC()
		l.TerminatedAt = &at
		l.TerminationReason = input.Reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !wasActive {
		// never held the unit
		return l, nil
	}
	return l, r.release(ctx, l)
}

func (r *leaseRepo) Renew(ctx context.Context, ownerID, id uuid.UUID, input models.RenewLeaseInput) (*models.Lease, error) {
	if err := validateInput(input, nil); err != nil {
		return nil, err
	}
	prev, err := r.leases.getOwned(ctx, ownerID, id, false)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, r.leases.notFound(id)
	}
	if prev.Status != models.LeaseStatusActive && prev.Status != models.LeaseStatusExpired {
		return nil, invalid("status", CodeInvalidTransition, fmt.Sprintf("cannot renew a %s lease", prev.Status))
	}

	start := input.StartDate
	if start.IsZero() {
		start = prev.EndDate.AddDate(0, 0, 1)
	}
	if err := checkRange("start_date", "end_date", start, input.EndDate); err != nil {
		return nil, err
	}
	rent := input.MonthlyRent
	if rent == 0 {
		rent = prev.MonthlyRent
	}

	prevID := prev.ID
	next := &models.Lease{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		PropertyID:      prev.PropertyID,
		Status:          models.LeaseStatusDraft,
		PreviousLeaseID: &prevID,
		LeaseFields: models.LeaseFields{
			UnitID:          prev.UnitID,
			TenantID:        prev.TenantID,
			StartDate:       start,
			EndDate:         input.EndDate,
			MonthlyRent:     rent,
			SecurityDeposit: prev.SecurityDeposit,
			RentDueDay:      prev.RentDueDay,
			Terms:           prev.Terms,
			Metadata:        prev.Metadata.Clone(),
		},
	}
	return r.leases.insert(ctx, next)
}

func (r *leaseRepo) ExpireDue(ctx context.Context, now time.Time) ([]*models.Lease, error) {
	all, err := r.leases.list(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}
	var expired []*models.Lease
	for _, candidate := range all {
		if candidate.Status != models.LeaseStatusActive || !candidate.EndDate.Before(now) {
			continue
		}
		l, err := r.transition(ctx, candidate.OwnerID, candidate.ID, models.LeaseStatusExpired, nil)
		if errors.Is(err, ErrValidation) || isNotFound(err) {
			// moved or removed since the scan
			continue
		}
		if err != nil {
			return expired, err
		}
		if err := r.release(ctx, l); err != nil {
			return expired, err
		}
		utils.Logger.WithField("lease_id", l.ID).Info("Lease expired")
		expired = append(expired, l)
	}
	return expired, nil
}

// release frees the unit and, when the tenant holds no other active lease,
// marks the tenant as past.
func (r *leaseRepo) release(ctx context.Context, l *models.Lease) error {
	if err := r.setUnitStatus(ctx, l.UnitID, models.UnitStatusVacant); err != nil {
		return err
	}
	others, err := r.leases.listByRef(ctx, l.OwnerID, store.Ref(refTenant, l.TenantID), false)
	if err != nil {
		return err
	}
	for _, o := range others {
		if o.ID != l.ID && o.Status == models.LeaseStatusActive {
			return nil
		}
	}
	return r.setTenantStatus(ctx, l.TenantID, models.TenantStatusPast)
}

func (r *leaseRepo) setUnitStatus(ctx context.Context, id uuid.UUID, status models.UnitStatus) error {
	_, err := r.units.mutate(ctx, id, func(u *models.Unit) error {
		u.Status = status
		return nil
	})
	if isNotFound(err) {
		return nil
	}
	return err
}

func (r *leaseRepo) setTenantStatus(ctx context.Context, id uuid.UUID, status models.TenantStatus) error {
	_, err := r.tenants.mutate(ctx, id, func(t *models.Tenant) error {
		t.Status = status
		return nil
	})
	if isNotFound(err) {
		return nil
	}
	return err
}

/* ---------- Delete / stats ---------- */

func (r *leaseRepo) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (models.DeleteResult, error) {
	return r.leases.softDelete(ctx, ownerID, id)
}

func (r *leaseRepo) GetStats(ctx context.Context, ownerID uuid.UUID) (*models.LeaseStats, error) {
	leases, err := r.leases.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	stats := analytics.LeaseStats(leases, r.now())
	return &stats, nil
}

func (r *leaseRepo) GetAnalytics(ctx context.Context, ownerID uuid.UUID, opts AnalyticsOptions) (*models.LeaseAnalytics, error) {
	tf := opts.timeframe()
	if !tf.Valid() {
		return nil, invalid("timeframe", "validation_enum", "unknown timeframe "+string(tf))
	}
	f := ownerFilter(ownerID)
	if opts.PropertyID != nil {
		f.Ref = store.Ref(refProperty, *opts.PropertyID)
	}
	leases, err := r.leases.list(ctx, f)
	if err != nil {
		return nil, err
	}
	out := analytics.LeaseAnalytics(tf, opts.PropertyID, r.now(), leases)
	return &out, nil
}
