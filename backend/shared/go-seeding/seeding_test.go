package seeding

import (
	"context"
	"testing"

	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoPortfolio_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewMemoryStore()
	require.NoError(t, err)
	repos := repositories.New(s)

	require.NoError(t, SeedDemoPortfolio(ctx, repos))
	require.NoError(t, SeedDemoPortfolio(ctx, repos))

	owner, err := repos.Users.FindByEmail(ctx, DefaultOwnerEmail)
	require.NoError(t, err)
	require.NotNil(t, owner)

	props, err := repos.Properties.FindByOwnerWithSearch(ctx, owner.ID, repositories.PropertyQueryOptions{})
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, DemoPropertyName, props[0].Name)

	units, err := repos.Units.FindByProperty(ctx, owner.ID, props[0].ID, repositories.QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, units, len(demoUnits))

	stats, err := repos.Leases.GetStats(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Active)

	tenant, err := repos.Tenants.FindByEmail(ctx, owner.ID, DemoTenantEmail)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, models.TenantStatusActive, tenant.Status)
}
