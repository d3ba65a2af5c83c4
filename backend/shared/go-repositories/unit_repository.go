package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-analytics"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
)

type UnitRepository interface {
	Repository[models.Unit, models.UnitInput, models.UnitUpdate, UnitQueryOptions]

	FindByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, opts QueryOptions) ([]*models.Unit, error)
	FindWithDetails(ctx context.Context, ownerID, id uuid.UUID) (*models.UnitWithDetails, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.UnitStatus) (*models.Unit, error)
	// Delete fails while the unit has an active lease.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	// GetStats covers every unit of the owner, or one property's.
	GetStats(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID) (*models.UnitStats, error)
}

type unitRepo struct {
	*env
}

func NewUnitRepository(s store.Store, opts ...Option) UnitRepository {
	return &unitRepo{env: newEnv(s, opts...)}
}

func indexUnit(u *models.Unit) ([]string, *uniqueKey) {
	return []string{store.Ref(refProperty, u.PropertyID)},
		&uniqueKey{Field: "unit_number", Value: u.UnitNumber, Scope: u.PropertyID}
}

var unitList = listSpec[*models.Unit]{
	searchText: func(u *models.Unit) []string {
		return append([]string{u.UnitNumber}, u.Features...)
	},
	sortKeys: map[string]compareFunc[*models.Unit]{
		"unitNumber":  byString(func(u *models.Unit) string { return u.UnitNumber }),
		"monthlyRent": byNumber(func(u *models.Unit) float64 { return u.MonthlyRent }),
		"bedrooms":    byNumber(func(u *models.Unit) int { return u.Bedrooms }),
		"status":      byString(func(u *models.Unit) string { return string(u.Status) }),
	},
}

func (r *unitRepo) FindByOwnerWithSearch(ctx context.Context, ownerID uuid.UUID, opts UnitQueryOptions) ([]*models.Unit, error) {
	var (
		units []*models.Unit
		err   error
	)
	if opts.PropertyID != nil {
		units, err = r.units.listByRef(ctx, ownerID, store.Ref(refProperty, *opts.PropertyID), false)
	} else {
		units, err = r.units.listByOwner(ctx, ownerID, false)
	}
	if err != nil {
		return nil, err
	}
	units = keep(units, func(u *models.Unit) bool {
		if !ptrEq(opts.Status, u.Status) {
			return false
		}
		if opts.MinBedrooms != nil && u.Bedrooms < *opts.MinBedrooms {
			return false
		}
		return opts.MaxRent == nil || u.MonthlyRent <= *opts.MaxRent
	})
	return paginate(units, opts.QueryOptions, unitList), nil
}

func (r *unitRepo) FindByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, opts QueryOptions) ([]*models.Unit, error) {
	return r.FindByOwnerWithSearch(ctx, ownerID, UnitQueryOptions{QueryOptions: opts, PropertyID: &propertyID})
}

func (r *unitRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	return r.units.get(ctx, id, false)
}

func (r *unitRepo) Create(ctx context.Context, ownerID uuid.UUID, input models.UnitInput) (*models.Unit, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validateInput(input, input.Metadata); err != nil {
		return nil, err
	}
	prop, err := r.properties.getOwned(ctx, ownerID, input.PropertyID, false)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, invalid("property_id", CodeInvalidReference, "property "+input.PropertyID.String()+" does not exist")
	}

	u := &models.Unit{ID: uuid.New(), OwnerID: ownerID, UnitFields: input.UnitFields}
	u.Metadata = input.Metadata.Clone()
	if u.Status == "" {
		u.Status = models.UnitStatusVacant
	}
	return r.units.insert(ctx, u)
}

func (r *unitRepo) Update(ctx context.Context, id uuid.UUID, patch models.UnitUpdate) (*models.Unit, error) {
	if err := validateInput(patch, patch.Metadata); err != nil {
		return nil, err
	}
	return absentIfNotFound(r.units.mutate(ctx, id, func(u *models.Unit) error {
		patch.ApplyTo(u)
		return nil
	}))
}

func (r *unitRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.UnitStatus) (*models.Unit, error) {
	if !status.Valid() {
		return nil, invalid("status", "validation_enum", "unknown unit status "+string(status))
	}
	return r.Update(ctx, id, models.UnitUpdate{Status: &status})
}

func (r *unitRepo) FindWithDetails(ctx context.Context, ownerID, id uuid.UUID) (*models.UnitWithDetails, error) {
	u, err := r.units.getOwned(ctx, ownerID, id, false)
	if err != nil || u == nil {
		return nil, err
	}
	out := &models.UnitWithDetails{Unit: u}
	if out.Property, err = r.properties.get(ctx, u.PropertyID, true); err != nil {
		return nil, err
	}
	lease, err := activeLeaseForUnit(ctx, r.env, ownerID, id)
	if err != nil || lease == nil {
		return out, err
	}
	out.CurrentLease = lease
	out.CurrentTenant, err = r.tenants.get(ctx, lease.TenantID, true)
	return out, err
}

func (r *unitRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	lease, err := activeLeaseForUnit(ctx, r.env, ownerID, id)
	if err != nil {
		return err
	}
	if lease != nil {
		return invalid("id", CodeInUse, "unit has active lease "+lease.ID.String())
	}
	return r.units.hardDelete(ctx, ownerID, id)
}

func (r *unitRepo) GetStats(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID) (*models.UnitStats, error) {
	var (
		units []*models.Unit
		err   error
	)
	if propertyID != nil {
		units, err = r.units.listByRef(ctx, ownerID, store.Ref(refProperty, *propertyID), false)
	} else {
		units, err = r.units.listByOwner(ctx, ownerID, false)
	}
	if err != nil {
		return nil, err
	}
	stats := analytics.UnitStats(units)
	return &stats, nil
}

func activeLeaseForUnit(ctx context.Context, e *env, ownerID, unitID uuid.UUID) (*models.Lease, error) {
	leases, err := e.leases.listByRef(ctx, ownerID, store.Ref(refUnit, unitID), false)
	if err != nil {
		return nil, err
	}
	for _, l := range leases {
		if l.Status == models.LeaseStatusActive {
			return l, nil
		}
	}
	return nil, nil
}
