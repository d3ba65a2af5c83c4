package seeding

import (
	"context"
	"fmt"

	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const (
	DemoPropertyName = "Gates Mill Apartments"
	DemoTenantEmail  = "resident@keystone.example.com"
)

var demoUnits = []struct {
	number   string
	bedrooms int
	rent     float64
}{
	{"101", 1, 950},
	{"102", 2, 1250},
	{"201", 2, 1300},
	{"202", 3, 1650},
}

// SeedDemoPortfolio seeds the default owner plus one property with units,
// a tenant and an active lease on the first unit. It does nothing when the
// owner already existed.
func SeedDemoPortfolio(ctx context.Context, repos *repositories.Repositories) error {
	owner, created, err := SeedDefaultOwner(ctx, repos.Users)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	prop, err := repos.Properties.Create(ctx, owner.ID, models.PropertyInput{PropertyFields: models.PropertyFields{
		Name:      DemoPropertyName,
		Type:      models.PropertyTypeApartment,
		Address:   "30 Gates Mill St NW",
		City:      "Huntsville",
		State:     "AL",
		ZipCode:   "35806",
		Latitude:  utils.Ptr(34.7304),
		Longitude: utils.Ptr(-86.5861),
		YearBuilt: utils.Ptr(1998),
	}})
	if err != nil {
		return fmt.Errorf("create demo property: %w", err)
	}

	var first *models.Unit
	for _, u := range demoUnits {
		unit, err := repos.Units.Create(ctx, owner.ID, models.UnitInput{UnitFields: models.UnitFields{
			PropertyID:  prop.ID,
			UnitNumber:  u.number,
			Bedrooms:    u.bedrooms,
			Bathrooms:   1,
			MonthlyRent: u.rent,
			Deposit:     u.rent,
		}})
		if err != nil {
			return fmt.Errorf("create demo unit %s: %w", u.number, err)
		}
		if first == nil {
			first = unit
		}
	}

	tenant, err := repos.Tenants.Create(ctx, owner.ID, models.TenantInput{TenantFields: models.TenantFields{
		FirstName: "Riley",
		LastName:  "Resident",
		Email:     DemoTenantEmail,
		Phone:     "+12565550101",
	}})
	if err != nil {
		return fmt.Errorf("create demo tenant: %w", err)
	}

	now := utils.NowUTC()
	lease, err := repos.Leases.Create(ctx, owner.ID, models.LeaseInput{LeaseFields: models.LeaseFields{
		UnitID:          first.ID,
		TenantID:        tenant.ID,
		StartDate:       now.AddDate(0, -3, 0),
		EndDate:         now.AddDate(0, 9, 0),
		MonthlyRent:     first.MonthlyRent,
		SecurityDeposit: first.Deposit,
	}})
	if err != nil {
		return fmt.Errorf("create demo lease: %w", err)
	}
	if _, err := repos.Leases.Submit(ctx, owner.ID, lease.ID); err != nil {
		return fmt.Errorf("submit demo lease: %w", err)
	}
	if _, err := repos.Leases.Activate(ctx, owner.ID, lease.ID); err != nil {
		return fmt.Errorf("activate demo lease: %w", err)
	}

	utils.Logger.Infof("seeding: created demo portfolio property=%s units=%d", prop.ID, len(demoUnits))
	return nil
}
