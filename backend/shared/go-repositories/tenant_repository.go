package repositories

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-analytics"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

type TenantRepository interface {
	Repository[models.Tenant, models.TenantInput, models.TenantUpdate, TenantQueryOptions]

	FindByEmail(ctx context.Context, ownerID uuid.UUID, email string) (*models.Tenant, error)
	FindWithLeases(ctx context.Context, ownerID, id uuid.UUID) (*models.TenantWithLeases, error)
	// GetActivity lists the newest limit events touching the tenant.
	GetActivity(ctx context.Context, ownerID, id uuid.UUID, limit int) ([]models.ActivityItem, error)
	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (models.DeleteResult, error)
	GetStats(ctx context.Context, ownerID uuid.UUID) (*models.TenantStats, error)
	GetAnalytics(ctx context.Context, ownerID uuid.UUID, opts AnalyticsOptions) (*models.TenantAnalytics, error)
}

type tenantRepo struct {
	*env
}

func NewTenantRepository(s store.Store, opts ...Option) TenantRepository {
	return &tenantRepo{env: newEnv(s, opts...)}
}

func indexTenant(t *models.Tenant) ([]string, *uniqueKey) {
	return nil, &uniqueKey{Field: "email", Value: utils.NormalizeEmail(t.Email), Scope: t.OwnerID}
}

var tenantList = listSpec[*models.Tenant]{
	searchText: func(t *models.Tenant) []string {
		return []string{t.FirstName, t.LastName, t.FullName(), t.Email, t.Phone}
	},
	sortKeys: map[string]compareFunc[*models.Tenant]{
		"firstName": byString(func(t *models.Tenant) string { return t.FirstName }),
		"lastName":  byString(func(t *models.Tenant) string { return t.LastName }),
		"email":     byString(func(t *models.Tenant) string { return t.Email }),
		"status":    byString(func(t *models.Tenant) string { return string(t.Status) }),
	},
}

func (r *tenantRepo) FindByOwnerWithSearch(ctx context.Context, ownerID uuid.UUID, opts TenantQueryOptions) ([]*models.Tenant, error) {
	tenants, err := r.tenants.listByOwner(ctx, ownerID, opts.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	tenants = keep(tenants, func(t *models.Tenant) bool { return ptrEq(opts.Status, t.Status) })
	return paginate(tenants, opts.QueryOptions, tenantList), nil
}

func (r *tenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return r.tenants.get(ctx, id, false)
}

func (r *tenantRepo) FindByEmail(ctx context.Context, ownerID uuid.UUID, email string) (*models.Tenant, error) {
	return r.tenants.findUnique(ctx, uniqueKey{Field: "email", Value: utils.NormalizeEmail(email), Scope: ownerID})
}

func (r *tenantRepo) Create(ctx context.Context, ownerID uuid.UUID, input models.TenantInput) (*models.Tenant, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validateInput(input, input.Metadata); err != nil {
		return nil, err
	}
	t := &models.Tenant{ID: uuid.New(), OwnerID: ownerID, TenantFields: input.TenantFields}
	t.Metadata = input.Metadata.Clone()
	t.Email = utils.NormalizeEmail(t.Email)
	if phone, ok := utils.NormalizePhone(t.Phone); ok {
		t.Phone = phone
	}
	if t.Status == "" {
		t.Status = models.TenantStatusProspect
	}
	return r.tenants.insert(ctx, t)
}

func (r *tenantRepo) Update(ctx context.Context, id uuid.UUID, patch models.TenantUpdate) (*models.Tenant, error) {
	if err := validateInput(patch, patch.Metadata); err != nil {
		return nil, err
	}
	return absentIfNotFound(r.tenants.mutate(ctx, id, func(t *models.Tenant) error {
		patch.ApplyTo(t)
		t.Email = utils.NormalizeEmail(t.Email)
		return nil
	}))
}

func (r *tenantRepo) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (models.DeleteResult, error) {
	return r.tenants.softDelete(ctx, ownerID, id)
}

func (r *tenantRepo) FindWithLeases(ctx context.Context, ownerID, id uuid.UUID) (*models.TenantWithLeases, error) {
	t, err := r.tenants.getOwned(ctx, ownerID, id, false)
	if err != nil || t == nil {
		return nil, err
	}
	leases, err := r.leases.listByRef(ctx, ownerID, store.Ref(refTenant, id), false)
	if err != nil {
		return nil, err
	}
	out := &models.TenantWithLeases{Tenant: t, Leases: leases}
	for _, l := range leases {
		if l.Status == models.LeaseStatusActive {
			out.ActiveLease = l
			break
		}
	}
	return out, nil
}

func (r *tenantRepo) GetActivity(ctx context.Context, ownerID, id uuid.UUID, limit int) ([]models.ActivityItem, error) {
	t, err := r.tenants.getOwned(ctx, ownerID, id, true)
	if err != nil || t == nil {
		return nil, err
	}
	ref := store.Ref(refTenant, id)
	leases, err := r.leases.listByRef(ctx, ownerID, ref, true)
	if err != nil {
		return nil, err
	}
	reqs, err := r.maintenance.listByRef(ctx, ownerID, ref, true)
	if err != nil {
		return nil, err
	}

	items := []models.ActivityItem{{
		Kind: models.ActivityTenantCreated, EntityID: t.ID,
		Description: t.FullName() + " added", OccurredAt: t.CreatedAt,
	}}
	for _, l := range leases {
		items = append(items, models.ActivityItem{
			Kind: models.ActivityLeaseCreated, EntityID: l.ID,
			Description: "Lease drafted", OccurredAt: l.CreatedAt,
		})
		if l.ActivatedAt != nil {
			items = append(items, models.ActivityItem{
				Kind: models.ActivityLeaseActivated, EntityID: l.ID,
				Description: "Lease activated", OccurredAt: *l.ActivatedAt,
			})
		}
		if l.TerminatedAt != nil {
			items = append(items, models.ActivityItem{
				Kind: models.ActivityLeaseTerminated, EntityID: l.ID,
				Description: "Lease terminated: " + l.TerminationReason, OccurredAt: *l.TerminatedAt,
			})
		}
	}
	for _, m := range reqs {
		items = append(items, models.ActivityItem{
			Kind: models.ActivityMaintenanceRequest, EntityID: m.ID,
			Description: m.Title, OccurredAt: m.CreatedAt,
		})
		if closed := closedAt(m); closed != nil {
			items = append(items, models.ActivityItem{
				Kind: models.ActivityMaintenanceClosed, EntityID: m.ID,
				Description: m.Title + " " + string(m.Status), OccurredAt: *closed,
			})
		}
	}

	slices.SortStableFunc(items, func(a, b models.ActivityItem) int { return b.OccurredAt.Compare(a.OccurredAt) })
	limit = QueryOptions{Limit: limit}.Normalize().Limit
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func closedAt(m *models.MaintenanceRequest) *time.Time {
	if m.CompletedAt != nil {
		return m.CompletedAt
	}
	return m.CanceledAt
}

func (r *tenantRepo) GetStats(ctx context.Context, ownerID uuid.UUID) (*models.TenantStats, error) {
	tenants, err := r.tenants.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	stats := analytics.TenantStats(tenants)
	return &stats, nil
}

func (r *tenantRepo) GetAnalytics(ctx context.Context, ownerID uuid.UUID, opts AnalyticsOptions) (*models.TenantAnalytics, error) {
	tf := opts.timeframe()
	if !tf.Valid() {
		return nil, invalid("timeframe", "validation_enum", "unknown timeframe "+string(tf))
	}
	tenants, err := r.tenants.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	leases, err := r.leases.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	if opts.PropertyID != nil {
		leases = keep(leases, func(l *models.Lease) bool { return l.PropertyID == *opts.PropertyID })
		housed := make(map[uuid.UUID]bool, len(leases))
		for _, l := range leases {
			housed[l.TenantID] = true
		}
		tenants = keep(tenants, func(t *models.Tenant) bool { return housed[t.ID] })
	}
	out := analytics.TenantAnalytics(tf, r.now(), tenants, leases)
	return &out, nil
}
