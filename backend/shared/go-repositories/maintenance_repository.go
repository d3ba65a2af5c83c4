package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-analytics"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
)

// MaintenanceRepository tracks requests from OPEN to COMPLETED or
// CANCELED. Lifecycle operations on a missing request return
// *NotFoundError.
type MaintenanceRepository interface {
	Repository[models.MaintenanceRequest, models.MaintenanceRequestInput, models.MaintenanceRequestUpdate, MaintenanceQueryOptions]

	FindByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, opts QueryOptions) ([]*models.MaintenanceRequest, error)
	FindWithDetails(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequestWithDetails, error)

	Assign(ctx context.Context, ownerID, id uuid.UUID, input models.AssignMaintenanceInput) (*models.MaintenanceRequest, error)
	AddWorkLog(ctx context.Context, ownerID, id uuid.UUID, input models.WorkLogInput) (*models.MaintenanceRequest, error)
	Complete(ctx context.Context, ownerID, id uuid.UUID, input models.CompleteMaintenanceInput) (*models.MaintenanceRequest, error)
	Cancel(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error)

	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (models.DeleteResult, error)
	GetStats(ctx context.Context, ownerID uuid.UUID) (*models.MaintenanceStats, error)
	GetAnalytics(ctx context.Context, ownerID uuid.UUID, opts AnalyticsOptions) (*models.MaintenanceAnalytics, error)
}

type maintenanceRepo struct {
	*env
}

func NewMaintenanceRepository(s store.Store, opts ...Option) MaintenanceRepository {
	return &maintenanceRepo{env: newEnv(s, opts...)}
}

func indexMaintenance(m *models.MaintenanceRequest) ([]string, *uniqueKey) {
	refs := []string{store.Ref(refProperty, m.PropertyID)}
	if m.UnitID != nil {
		refs = append(refs, store.Ref(refUnit, *m.UnitID))
	}
	if m.TenantID != nil {
		refs = append(refs, store.Ref(refTenant, *m.TenantID))
	}
	return refs, nil
}

var maintenanceList = listSpec[*models.MaintenanceRequest]{
	searchText: func(m *models.MaintenanceRequest) []string {
		return []string{m.Title, m.Description, string(m.Category)}
	},
	sortKeys: map[string]compareFunc[*models.MaintenanceRequest]{
		"title":    byString(func(m *models.MaintenanceRequest) string { return m.Title }),
		"status":   byString(func(m *models.MaintenanceRequest) string { return string(m.Status) }),
		"category": byString(func(m *models.MaintenanceRequest) string { return string(m.Category) }),
		"priority": byNumber(func(m *models.MaintenanceRequest) int { return m.Priority.Rank() }),
	},
}

func (r *maintenanceRepo) FindByOwnerWithSearch(ctx context.Context, ownerID uuid.UUID, opts MaintenanceQueryOptions) ([]*models.MaintenanceRequest, error) {
	f := ownerFilter(ownerID)
	switch {
	case opts.UnitID != nil:
		f.Ref = store.Ref(refUnit, *opts.UnitID)
	case opts.TenantID != nil:
		f.Ref = store.Ref(refTenant, *opts.TenantID)
	case opts.PropertyID != nil:
		f.Ref = store.Ref(refProperty, *opts.PropertyID)
	}
	reqs, err := r.maintenance.list(ctx, f)
	if err != nil {
		return nil, err
	}
	reqs = keep(reqs, func(m *models.MaintenanceRequest) bool {
		if !ptrEq(opts.PropertyID, m.PropertyID) ||
			!ptrEq(opts.Status, m.Status) ||
			!ptrEq(opts.Priority, m.Priority) ||
			!ptrEq(opts.Category, m.Category) {
			return false
		}
		if opts.UnitID != nil && (m.UnitID == nil || *m.UnitID != *opts.UnitID) {
			return false
		}
		if opts.TenantID != nil && (m.TenantID == nil || *m.TenantID != *opts.TenantID) {
			return false
		}
		return opts.AssignedTo == "" || (m.AssignedTo != nil && *m.AssignedTo == opts.AssignedTo)
	})
	return paginate(reqs, opts.QueryOptions, maintenanceList), nil
}

func (r *maintenanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return r.maintenance.get(ctx, id, false)
}

func (r *maintenanceRepo) FindByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, opts QueryOptions) ([]*models.MaintenanceRequest, error) {
	return r.FindByOwnerWithSearch(ctx, ownerID, MaintenanceQueryOptions{QueryOptions: opts, PropertyID: &propertyID})
}

func (r *maintenanceRepo) FindWithDetails(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequestWithDetails, error) {
	m, err := r.maintenance.getOwned(ctx, ownerID, id, false)
	if err != nil || m == nil {
		return nil, err
	}
	out := &models.MaintenanceRequestWithDetails{MaintenanceRequest: m}
	if out.Property, err = r.properties.get(ctx, m.PropertyID, true); err != nil {
		return nil, err
	}
	if m.UnitID != nil {
		if out.Unit, err = r.units.get(ctx, *m.UnitID, true); err != nil {
			return nil, err
		}
	}
	if m.TenantID != nil {
		if out.Tenant, err = r.tenants.get(ctx, *m.TenantID, true); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *maintenanceRepo) Create(ctx context.Context, ownerID uuid.UUID, input models.MaintenanceRequestInput) (*models.MaintenanceRequest, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validateInput(input, input.Metadata); err != nil {
		return nil, err
	}
	if err := r.checkRefs(ctx, ownerID, input.PropertyID, input.UnitID, input.TenantID); err != nil {
		return nil, err
	}

	m := &models.MaintenanceRequest{
		ID:                       uuid.New(),
		OwnerID:                  ownerID,
		Status:                   models.MaintenanceStatusOpen,
		MaintenanceRequestFields: input.MaintenanceRequestFields,
	}
	m.Metadata = input.Metadata.Clone()
	return r.maintenance.insert(ctx, m)
}

// checkRefs requires an owned property and, when given, a unit of that
// property and an owned tenant.
func (r *maintenanceRepo) checkRefs(ctx context.Context, ownerID, propertyID uuid.UUID, unitID, tenantID *uuid.UUID) error {
	prop, err := r.properties.getOwned(ctx, ownerID, propertyID, false)
	if err != nil {
		return err
	}
	if prop == nil {
		return invalid("property_id", CodeInvalidReference, "property "+propertyID.String()+" does not exist")
	}
	if unitID != nil {
		u, err := r.units.getOwned(ctx, ownerID, *unitID, false)
		if err != nil {
			return err
		}
		if u == nil || u.PropertyID != propertyID {
			return invalid("unit_id", CodeInvalidReference, "unit "+unitID.String()+" does not belong to the property")
		}
	}
	if tenantID != nil {
		t, err := r.tenants.getOwned(ctx, ownerID, *tenantID, false)
		if err != nil {
			return err
		}
		if t == nil {
			return invalid("tenant_id", CodeInvalidReference, "tenant "+tenantID.String()+" does not exist")
		}
	}
	return nil
}

func (r *maintenanceRepo) Update(ctx context.Context, id uuid.UUID, patch models.MaintenanceRequestUpdate) (*models.MaintenanceRequest, error) {
	if err := validateInput(patch, patch.Metadata); err != nil {
		return nil, err
	}
	current, err := r.maintenance.get(ctx, id, false)
	if err != nil || current == nil {
		return nil, err
	}
	if patch.UnitID != nil || patch.TenantID != nil {
		if err := r.checkRefs(ctx, current.OwnerID, current.PropertyID, patch.UnitID, patch.TenantID); err != nil {
			return nil, err
		}
	}
	return absentIfNotFound(r.maintenance.mutate(ctx, id, func(m *models.MaintenanceRequest) error {
		if m.Status.IsTerminal() {
			return invalid("status", CodeInvalidTransition, fmt.Sprintf("request is %s and cannot be modified", m.Status))
		}
		patch.ApplyTo(m)
		return nil
	}))
}

/* ---------- Lifecycle ---------- */

func (r *maintenanceRepo) step(
	ctx context.Context,
	ownerID, id uuid.UUID,
	apply func(m *models.MaintenanceRequest, now time.Time) error,
) (*models.MaintenanceRequest, error) {
	return r.maintenance.mutate(ctx, id, func(m *models.MaintenanceRequest) error {
		if m.OwnerID != ownerID {
			return r.maintenance.notFound(id)
		}
		return apply(m, r.now())
	})
}

func (r *maintenanceRepo) Assign(ctx context.Context, ownerID, id uuid.UUID, input models.AssignMaintenanceInput) (*models.MaintenanceRequest, error) {
	if err := validateInput(input, nil); err != nil {
		return nil, err
	}
	return r.step(ctx, ownerID, id, func(m *models.MaintenanceRequest, now time.Time) error {
		if m.Status != models.MaintenanceStatusOpen {
			return invalidTransition(m.Status, models.MaintenanceStatusAssigned)
		}
		m.Status = models.MaintenanceStatusAssigned
		assignee := input.AssignedTo
		m.AssignedTo = &assignee
		m.AssignedAt = &now
		return nil
	})
}

// AddWorkLog appends an entry. The first entry on an assigned or held
// request starts the work; OnHold parks it instead.
func (r *maintenanceRepo) AddWorkLog(ctx context.Context, ownerID, id uuid.UUID, input models.WorkLogInput) (*models.MaintenanceRequest, error) {
	if err := validateInput(input, nil); err != nil {
		return nil, err
	}
	return r.step(ctx, ownerID, id, func(m *models.MaintenanceRequest, now time.Time) error {
		next := models.MaintenanceStatusInProgress
		if input.OnHold {
			next = models.MaintenanceStatusOnHold
		}
		switch m.Status {
		case models.MaintenanceStatusAssigned, models.MaintenanceStatusOnHold, models.MaintenanceStatusInProgress:
		default:
			return invalidTransition(m.Status, next)
		}
		m.Status = next
		if m.StartedAt == nil && next == models.MaintenanceStatusInProgress {
			m.StartedAt = &now
		}
		m.WorkLog = append(m.WorkLog, models.WorkLogEntry{
			ID:         uuid.New(),
			Note:       input.Note,
			Author:     input.Author,
			HoursSpent: input.HoursSpent,
			CreatedAt:  now,
		})
		return nil
	})
}

func (r *maintenanceRepo) Complete(ctx context.Context, ownerID, id uuid.UUID, input models.CompleteMaintenanceInput) (*models.MaintenanceRequest, error) {
	if err := validateInput(input, nil); err != nil {
		return nil, err
	}
	return r.step(ctx, ownerID, id, func(m *models.MaintenanceRequest, now time.Time) error {
		if m.Status.IsTerminal() {
			return invalidTransition(m.Status, models.MaintenanceStatusCompleted)
		}
		m.Status = models.MaintenanceStatusCompleted
		m.CompletedAt = &now
		if m.StartedAt == nil {
			m.StartedAt = &now
		}
		if input.ActualCost != nil {
			cost := models.RoundCents(*input.ActualCost)
			m.ActualCost = &cost
		}
		m.ResolutionNotes = input.ResolutionNotes
		return nil
	})
}

func (r *maintenanceRepo) Cancel(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return r.step(ctx, ownerID, id, func(m *models.MaintenanceRequest, now time.Time) error {
		if m.Status.IsTerminal() {
			return invalidTransition(m.Status, models.MaintenanceStatusCanceled)
		}
		m.Status = models.MaintenanceStatusCanceled
		m.CanceledAt = &now
		return nil
	})
}

/* ---------- Delete / stats ---------- */

func (r *maintenanceRepo) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (models.DeleteResult, error) {
	return r.maintenance.softDelete(ctx, ownerID, id)
}

func (r *maintenanceRepo) GetStats(ctx context.Context, ownerID uuid.UUID) (*models.MaintenanceStats, error) {
	reqs, err := r.maintenance.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	stats := analytics.MaintenanceStats(reqs)
	return &stats, nil
}

func (r *maintenanceRepo) GetAnalytics(ctx context.Context, ownerID uuid.UUID, opts AnalyticsOptions) (*models.MaintenanceAnalytics, error) {
	tf := opts.timeframe()
	if !tf.Valid() {
		return nil, invalid("timeframe", "validation_enum", "unknown timeframe "+string(tf))
	}
	f := ownerFilter(ownerID)
	if opts.PropertyID != nil {
		f.Ref = store.Ref(refProperty, *opts.PropertyID)
	}
	reqs, err := r.maintenance.list(ctx, f)
	if err != nil {
		return nil, err
	}
	out := analytics.MaintenanceAnalytics(tf, opts.PropertyID, r.now(), reqs)
	return &out, nil
}
