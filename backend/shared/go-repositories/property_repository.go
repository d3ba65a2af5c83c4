package repositories

import (
	"context"
	"strings"

	"github.com/bradfitz/latlong"
	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-analytics"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type PropertyRepository interface {
	Repository[models.Property, models.PropertyInput, models.PropertyUpdate, PropertyQueryOptions]

	FindWithUnits(ctx context.Context, ownerID, id uuid.UUID) (*models.PropertyWithUnits, error)
	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (models.DeleteResult, error)
	// Delete removes the property and its units for good.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	GetStats(ctx context.Context, ownerID uuid.UUID) (*models.PropertyStats, error)
	GetAnalytics(ctx context.Context, ownerID uuid.UUID, opts AnalyticsOptions) (*models.PropertyAnalytics, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type propertyRepo struct {
	*env
}

func NewPropertyRepository(s store.Store, opts ...Option) PropertyRepository {
	return &propertyRepo{env: newEnv(s, opts...)}
}

func indexProperty(*models.Property) ([]string, *uniqueKey) { return nil, nil }

var propertyList = listSpec[*models.Property]{
	searchText: func(p *models.Property) []string {
		return []string{p.Name, p.Address, p.City, p.State, p.ZipCode, p.Description}
	},
	sortKeys: map[string]compareFunc[*models.Property]{
		"name":   byString(func(p *models.Property) string { return p.Name }),
		"city":   byString(func(p *models.Property) string { return p.City }),
		"status": byString(func(p *models.Property) string { return string(p.Status) }),
		"type":   byString(func(p *models.Property) string { return string(p.Type) }),
	},
}

func (r *propertyRepo) FindByOwnerWithSearch(ctx context.Context, ownerID uuid.UUID, opts PropertyQueryOptions) ([]*models.Property, error) {
	all, err := r.properties.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	matched := all[:0]
	for _, p := range all {
		if !ptrEq(opts.Status, p.Status) || !ptrEq(opts.Type, p.Type) {
			continue
		}
		if opts.City != "" && !strings.EqualFold(opts.City, p.City) {
			continue
		}
		if !opts.Near.contains(p.Latitude, p.Longitude) {
			continue
		}
		matched = append(matched, p)
	}
	return paginate(matched, opts.QueryOptions, propertyList), nil
}

func (r *propertyRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return r.properties.get(ctx, id, false)
}

func (r *propertyRepo) Create(ctx context.Context, ownerID uuid.UUID, input models.PropertyInput) (*models.Property, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validateInput(input, input.Metadata); err != nil {
		return nil, err
	}
	p := &models.Property{ID: uuid.New(), OwnerID: ownerID, PropertyFields: input.PropertyFields}
	p.Metadata = input.Metadata.Clone()
	if p.Status == "" {
		p.Status = models.PropertyStatusActive
	}
	if err := normalizeLocation(p); err != nil {
		return nil, err
	}
	return r.properties.insert(ctx, p)
}

func (r *propertyRepo) Update(ctx context.Context, id uuid.UUID, patch models.PropertyUpdate) (*models.Property, error) {
	if err := validateInput(patch, patch.Metadata); err != nil {
		return nil, err
	}
	return absentIfNotFound(r.properties.mutate(ctx, id, func(p *models.Property) error {
		moved := patch.Latitude != nil || patch.Longitude != nil
		patch.ApplyTo(p)
		if moved && patch.TimeZone == nil {
			p.TimeZone = ""
		}
		return normalizeLocation(p)
	}))
}

// normalizeLocation canonicalises US state codes and fills the time zone
// from coordinates when none was given.
func normalizeLocation(p *models.Property) error {
	if p.Country == "" {
		p.Country = "US"
	}
	if strings.EqualFold(p.Country, "US") || strings.EqualFold(p.Country, "USA") {
		code, err := utils.NormalizeUSState(p.State)
		if err != nil {
			return invalid("state", "validation_state", err.Error())
		}
		p.State = code
	}
	if p.TimeZone == "" && p.Latitude != nil && p.Longitude != nil {
		p.TimeZone = latlong.LookupZoneName(*p.Latitude, *p.Longitude)
	}
	return nil
}

func (r *propertyRepo) FindWithUnits(ctx context.Context, ownerID, id uuid.UUID) (*models.PropertyWithUnits, error) {
	p, err := r.properties.getOwned(ctx, ownerID, id, false)
	if err != nil || p == nil {
		return nil, err
	}
	units, err := r.units.listByRef(ctx, ownerID, store.Ref(refProperty, id), false)
	if err != nil {
		return nil, err
	}
	out := &models.PropertyWithUnits{Property: p, Units: units, UnitCount: len(units)}
	for _, u := range units {
		if u.Status == models.UnitStatusOccupied {
			out.OccupiedUnits++
		}
	}
	return out, nil
}

func (r *propertyRepo) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (models.DeleteResult, error) {
	return r.properties.softDelete(ctx, ownerID, id)
}

func (r *propertyRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := r.properties.hardDelete(ctx, ownerID, id); err != nil {
		return err
	}
	units, err := r.units.listByRef(ctx, ownerID, store.Ref(refProperty, id), true)
	if err != nil {
		return err
	}
	for _, u := range units {
		if err := r.units.hardDelete(ctx, ownerID, u.ID); err != nil && !isNotFound(err) {
			return err
		}
	}
	return nil
}

func (r *propertyRepo) GetStats(ctx context.Context, ownerID uuid.UUID) (*models.PropertyStats, error) {
	props, err := r.properties.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	units, err := r.liveUnits(ctx, ownerID, props)
	if err != nil {
		return nil, err
	}
	stats := analytics.PropertyStats(props, units)
	return &stats, nil
}

func (r *propertyRepo) GetAnalytics(ctx context.Context, ownerID uuid.UUID, opts AnalyticsOptions) (*models.PropertyAnalytics, error) {
	tf := opts.timeframe()
	if !tf.Valid() {
		return nil, invalid("timeframe", "validation_enum", "unknown timeframe "+string(tf))
	}

	props, err := r.properties.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	if opts.PropertyID != nil {
		props = filterByID(props, *opts.PropertyID)
	}
	units, err := r.liveUnits(ctx, ownerID, props)
	if err != nil {
		return nil, err
	}
	leases, err := r.leases.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	reqs, err := r.maintenance.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	if opts.PropertyID != nil {
		leases = keep(leases, func(l *models.Lease) bool { return l.PropertyID == *opts.PropertyID })
		reqs = keep(reqs, func(m *models.MaintenanceRequest) bool { return m.PropertyID == *opts.PropertyID })
	}

	out := analytics.PropertyAnalytics(tf, opts.PropertyID, r.now(), props, units, leases, reqs)
	return &out, nil
}

// liveUnits returns the units of the given (non-deleted) properties.
func (r *propertyRepo) liveUnits(ctx context.Context, ownerID uuid.UUID, props []*models.Property) ([]*models.Unit, error) {
	units, err := r.units.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	live := make(map[uuid.UUID]bool, len(props))
	for _, p := range props {
		live[p.ID] = true
	}
	return keep(units, func(u *models.Unit) bool { return live[u.PropertyID] }), nil
}

/* ---------- helpers shared across domains ---------- */

func requireOwner(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return invalid("owner_id", "validation_required", "Field 'owner_id' is required")
	}
	return nil
}

func keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

func filterByID[T models.Record](items []T, id uuid.UUID) []T {
	return keep(items, func(it T) bool { return it.GetID() == id })
}
