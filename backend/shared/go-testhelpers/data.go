package testhelpers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/require"
)

// UniquePhone generates a unique E.164 phone number for testing.
func UniquePhone() string {
	return fmt.Sprintf("+1555%07d", rand.New(rand.NewSource(time.Now().UnixNano())).Int31n(1e7))
}

// UniqueEmail generates a unique email for testing.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@keystone.example.com", prefix, time.Now().UnixNano())
}

// CreateTestOwner creates and persists an owner account.
func (h *TestHelper) CreateTestOwner(emailPrefix string) *models.User {
	u, err := h.Repos.Users.Create(h.Ctx, models.UserInput{UserFields: models.UserFields{
		Email:        UniqueEmail(emailPrefix),
		FirstName:    "Test",
		LastName:     emailPrefix,
		PhoneNumber:  utils.Ptr(UniquePhone()),
		Role:         models.UserRoleOwner,
		BusinessName: "Test Business",
	}})
	require.NoError(h.T, err, "Failed to create test owner")
	return u
}

// CreateTestProperty creates and persists a property in Austin, TX.
func (h *TestHelper) CreateTestProperty(ownerID uuid.UUID, name string) *models.Property {
	p, err := h.Repos.Properties.Create(h.Ctx, ownerID, models.PropertyInput{PropertyFields: models.PropertyFields{
		Name:    name,
		Type:    models.PropertyTypeApartment,
		Address: fmt.Sprintf("%s Address", name),
		City:    "Austin",
		State:   "TX",
		ZipCode: "78701",
	}})
	require.NoError(h.T, err, "Failed to create test property")
	return p
}

func (h *TestHelper) CreateTestUnit(ownerID, propertyID uuid.UUID, unitNumber string, rent float64) *models.Unit {
	u, err := h.Repos.Units.Create(h.Ctx, ownerID, models.UnitInput{UnitFields: models.UnitFields{
		PropertyID:  propertyID,
		UnitNumber:  unitNumber,
		Bedrooms:    2,
		Bathrooms:   1,
		MonthlyRent: rent,
		Deposit:     rent,
	}})
	require.NoError(h.T, err, "Failed to create test unit")
	return u
}

func (h *TestHelper) CreateTestTenant(ownerID uuid.UUID, emailPrefix string) *models.Tenant {
	t, err := h.Repos.Tenants.Create(h.Ctx, ownerID, models.TenantInput{TenantFields: models.TenantFields{
		FirstName: "Test",
		LastName:  emailPrefix,
		Email:     UniqueEmail(emailPrefix),
		Phone:     UniquePhone(),
	}})
	require.NoError(h.T, err, "Failed to create test tenant")
	return t
}

// CreateActiveLease creates a lease on unit for tenant and walks it through
// submission and activation.
func (h *TestHelper) CreateActiveLease(ownerID uuid.UUID, unit *models.Unit, tenantID uuid.UUID, start, end time.Time) *models.Lease {
	l, err := h.Repos.Leases.Create(h.Ctx, ownerID, models.LeaseInput{LeaseFields: models.LeaseFields{
		UnitID:          unit.ID,
		TenantID:        tenantID,
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     unit.MonthlyRent,
		SecurityDeposit: unit.Deposit,
	}})
	require.NoError(h.T, err, "Failed to create test lease")
	_, err = h.Repos.Leases.Submit(h.Ctx, ownerID, l.ID)
	require.NoError(h.T, err, "Failed to submit test lease")
	l, err = h.Repos.Leases.Activate(h.Ctx, ownerID, l.ID)
	require.NoError(h.T, err, "Failed to activate test lease")
	return l
}
