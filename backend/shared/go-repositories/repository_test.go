package repositories

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	ctx   context.Context
	clock *fakeClock
	repos *Repositories
	owner uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.NewMemoryStore()
	require.NoError(t, err)
	clock := &fakeClock{now: t0}
	return &fixture{
		ctx:   context.Background(),
		clock: clock,
		repos: New(s, WithClock(clock.Now)),
		owner: uuid.New(),
	}
}

func propertyInput(name string) models.PropertyInput {
	return models.PropertyInput{PropertyFields: models.PropertyFields{
		Name:    name,
		Type:    models.PropertyTypeApartment,
		Address: "100 Main St",
		City:    "Austin",
		State:   "texas",
		ZipCode: "78701",
	}}
}

func (f *fixture) property(t *testing.T, name string) *models.Property {
	t.Helper()
	p, err := f.repos.Properties.Create(f.ctx, f.owner, propertyInput(name))
	require.NoError(t, err)
	return p
}

func (f *fixture) unit(t *testing.T, propertyID uuid.UUID, number string) *models.Unit {
	t.Helper()
	u, err := f.repos.Units.Create(f.ctx, f.owner, models.UnitInput{UnitFields: models.UnitFields{
		PropertyID:  propertyID,
		UnitNumber:  number,
		Bedrooms:    2,
		Bathrooms:   1,
		MonthlyRent: 1500,
	}})
	require.NoError(t, err)
	return u
}

func (f *fixture) tenant(t *testing.T, email string) *models.Tenant {
	t.Helper()
	tn, err := f.repos.Tenants.Create(f.ctx, f.owner, models.TenantInput{TenantFields: models.TenantFields{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
	}})
	require.NoError(t, err)
	return tn
}

func requireProblem(t *testing.T, err error, field, code string) {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	p, ok := verr.Field(field)
	require.True(t, ok, "no problem reported for %s: %v", field, verr.Problems)
	assert.Equal(t, code, p.Code)
}

func TestQueryOptions_Normalize(t *testing.T) {
	cases := []struct {
		name       string
		in         QueryOptions
		wantLimit  int
		wantOffset int
		wantPage   int
	}{
		{"defaults", QueryOptions{}, 10, 0, 1},
		{"clamped", QueryOptions{Limit: 500}, 100, 0, 1},
		{"page wins", QueryOptions{Page: 3, Limit: 20, Offset: 5}, 20, 40, 3},
		{"page derived", QueryOptions{Limit: 10, Offset: 25}, 10, 25, 3},
		{"negative reset", QueryOptions{Limit: -1, Offset: -4, Page: -2}, 10, 0, 1},
		{"huge page capped", QueryOptions{Page: math.MaxInt / 2, Limit: 100}, 100, (math.MaxInt/100 - 1) * 100, math.MaxInt / 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			assert.Equal(t, tc.wantLimit, got.Limit)
			assert.Equal(t, tc.wantOffset, got.Offset)
			assert.Equal(t, tc.wantPage, got.Page)
			assert.Equal(t, OrderDesc, got.Order)
			assert.Equal(t, SortCreatedAt, got.Sort)
		})
	}
}

func TestErrors_Taxonomy(t *testing.T) {
	errs := []error{
		&RepositoryError{Message: "boom"},
		&NotFoundError{Entity: "Lease", ID: "1"},
		&DuplicateError{Entity: "Unit", Field: "unit_number", Value: "1A"},
		invalid("name", "validation_required", "missing"),
	}
	for _, err := range errs {
		assert.True(t, errors.Is(err, ErrRepository), "%T", err)
	}
	assert.True(t, errors.Is(errs[1], ErrNotFound))
	assert.True(t, errors.Is(errs[2], ErrDuplicate))
	assert.True(t, errors.Is(errs[3], ErrValidation))

	assert.True(t, IsRetryable(errs[0]))
	assert.False(t, IsRetryable(errs[1]))
	assert.False(t, IsRetryable(errs[3]))

	assert.Equal(t, utils.ErrCodeNotFound, utils.ToAppError(errs[1]).Code)
	assert.Equal(t, "Lease 1 not found", errs[1].Error())
}

func TestProperty_CreateAndFind(t *testing.T) {
	f := newFixture(t)
	lat, lng := 30.2672, -97.7431
	in := propertyInput("Riverside")
	in.Latitude, in.Longitude = &lat, &lng
	in.Metadata = models.Metadata{"source": "import"}

	p, err := f.repos.Properties.Create(f.ctx, f.owner, in)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, f.owner, p.OwnerID)
	assert.Equal(t, models.PropertyStatusActive, p.Status)
	assert.Equal(t, "TX", p.State)
	assert.Equal(t, "US", p.Country)
	assert.Equal(t, "America/Chicago", p.TimeZone)
	assert.Equal(t, t0, p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	got, err := f.repos.Properties.FindByID(f.ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Riverside", got.Name)
	assert.Equal(t, "import", got.Metadata["source"])

	missing, err := f.repos.Properties.FindByID(f.ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProperty_CreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.repos.Properties.Create(f.ctx, f.owner, models.PropertyInput{})
	requireProblem(t, err, "name", "validation_required")
	requireProblem(t, err, "type", "validation_required")

	in := propertyInput("Bad")
	in.Type = "CASTLE"
	_, err = f.repos.Properties.Create(f.ctx, f.owner, in)
	requireProblem(t, err, "type", "validation_enum")

	in = propertyInput("Bad")
	in.State = "Atlantis"
	_, err = f.repos.Properties.Create(f.ctx, f.owner, in)
	requireProblem(t, err, "state", "validation_state")

	in = propertyInput("Bad")
	in.Metadata = models.Metadata{"nested": map[string]any{"a": 1}}
	_, err = f.repos.Properties.Create(f.ctx, f.owner, in)
	requireProblem(t, err, "metadata", CodeInvalidMetadata)

	_, err = f.repos.Properties.Create(f.ctx, uuid.Nil, propertyInput("NoOwner"))
	requireProblem(t, err, "owner_id", "validation_required")
}

func TestProperty_UpdateAbsentAndTouch(t *testing.T) {
	f := newFixture(t)
	p := f.property(t, "Oak")

	got, err := f.repos.Properties.Update(f.ctx, uuid.New(), models.PropertyUpdate{Name: utils.Ptr("x")})
	require.NoError(t, err)
	assert.Nil(t, got)

	f.clock.Advance(time.Hour)
	updated, err := f.repos.Properties.Update(f.ctx, p.ID, models.PropertyUpdate{Name: utils.Ptr("Oak Court")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Oak Court", updated.Name)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.Equal(t, t0.Add(time.Hour), updated.UpdatedAt)
	assert.Greater(t, updated.RowVersion, p.RowVersion)
}

func TestProperty_SoftDeleteMessages(t *testing.T) {
	f := newFixture(t)
	p := f.property(t, "Elm")

	missingID := uuid.New()
	res, err := f.repos.Properties.SoftDelete(f.ctx, f.owner, missingID)
	require.NoError(t, err)
	assert.Equal(t, models.DeleteResult{Success: false, Message: "Property " + missingID.String() + " not found"}, res)

	res, err = f.repos.Properties.SoftDelete(f.ctx, uuid.New(), p.ID)
	require.NoError(t, err)
	assert.False(t, res.Success, "other owners cannot delete")

	res, err = f.repos.Properties.SoftDelete(f.ctx, f.owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeleteResult{Success: true, Message: "Property deleted"}, res)

	res, err = f.repos.Properties.SoftDelete(f.ctx, f.owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeleteResult{Success: true, Message: "Property already deleted"}, res)

	got, err := f.repos.Properties.FindByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := f.repos.Properties.FindByOwnerWithSearch(f.ctx, f.owner, PropertyQueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProperty_HardDeleteCascades(t *testing.T) {
	f := newFixture(t)
	p := f.property(t, "Pine")
	u := f.unit(t, p.ID, "1A")

	err := f.repos.Properties.Delete(f.ctx, f.owner, uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, f.repos.Properties.Delete(f.ctx, f.owner, p.ID))
	got, err := f.repos.Units.FindByID(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProperty_SearchSortPaginate(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"Cedar", "Aspen", "Birch", "Aspen Annex"} {
		f.property(t, name)
		f.clock.Advance(time.Minute)
	}
	other := &fixture{ctx: f.ctx, clock: f.clock, repos: f.repos, owner: uuid.New()}
	other.property(t, "Aspen Elsewhere")

	got, err := f.repos.Properties.FindByOwnerWithSearch(f.ctx, f.owner, PropertyQueryOptions{
		QueryOptions: QueryOptions{Search: "aspen", Sort: "name", Order: "asc"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Aspen", got[0].Name)
	assert.Equal(t, "Aspen Annex", got[1].Name)

	// default: newest first
	got, err = f.repos.Properties.FindByOwnerWithSearch(f.ctx, f.owner, PropertyQueryOptions{
		QueryOptions: QueryOptions{Limit: 2, Page: 2},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Aspen", got[0].Name)
	assert.Equal(t, "Cedar", got[1].Name)

	got, err = f.repos.Properties.FindByOwnerWithSearch(f.ctx, f.owner, PropertyQueryOptions{
		QueryOptions: QueryOptions{Limit: 500},
	})
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestProperty_PageBeyondEnd(t *testing.T) {
	f := newFixture(t)
	f.property(t, "Only One")

	for _, page := range []int{2, 1e17, math.MaxInt} {
		var got []*models.Property
		require.NotPanics(t, func() {
			var err error
			got, err = f.repos.Properties.FindByOwnerWithSearch(f.ctx, f.owner, PropertyQueryOptions{
				QueryOptions: QueryOptions{Page: page, Limit: 100},
			})
			require.NoError(t, err)
		})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}

	got, err := f.repos.Properties.FindByOwnerWithSearch(f.ctx, f.owner, PropertyQueryOptions{
		QueryOptions: QueryOptions{Offset: math.MaxInt, Limit: 100},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProperty_SearchNear(t *testing.T) {
	f := newFixture(t)
	at := func(name string, lat, lng float64) {
		in := propertyInput(name)
		in.Latitude, in.Longitude = &lat, &lng
		_, err := f.repos.Properties.Create(f.ctx, f.owner, in)
		require.NoError(t, err)
	}
	at("Downtown", 30.2672, -97.7431)
	at("Round Rock", 30.5083, -97.6789)
	at("Dallas", 32.7767, -96.7970)
	f.property(t, "Not geocoded")

	got, err := f.repos.Properties.FindByOwnerWithSearch(f.ctx, f.owner, PropertyQueryOptions{
		Near: &GeoRadius{Latitude: 30.2672, Longitude: -97.7431, RadiusMiles: 25},
		QueryOptions: QueryOptions{Sort: "name", Order: "asc"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Downtown", got[0].Name)
	assert.Equal(t, "Round Rock", got[1].Name)
}

func TestUnit_DuplicateNumberPerProperty(t *testing.T) {
	f := newFixture(t)
	p1 := f.property(t, "One")
	p2 := f.property(t, "Two")
	f.unit(t, p1.ID, "101")
	f.unit(t, p2.ID, "101")

	_, err := f.repos.Units.Create(f.ctx, f.owner, models.UnitInput{UnitFields: models.UnitFields{
		PropertyID: p1.ID, UnitNumber: "101",
	}})
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "unit_number", dup.Field)
	assert.Equal(t, utils.ErrCodeConflict, dup.Code())
}

func TestUnit_CreateRequiresOwnedProperty(t *testing.T) {
	f := newFixture(t)
	_, err := f.repos.Units.Create(f.ctx, f.owner, models.UnitInput{UnitFields: models.UnitFields{
		PropertyID: uuid.New(), UnitNumber: "1",
	}})
	requireProblem(t, err, "property_id", CodeInvalidReference)
}

func TestTenant_EmailUniquePerOwner(t *testing.T) {
	f := newFixture(t)
	first := f.tenant(t, "Ada@Example.com")
	assert.Equal(t, "ada@example.com", first.Email)
	assert.Equal(t, models.TenantStatusProspect, first.Status)

	_, err := f.repos.Tenants.Create(f.ctx, f.owner, models.TenantInput{TenantFields: models.TenantFields{
		FirstName: "A", LastName: "B", Email: "ada@example.com",
	}})
	assert.True(t, errors.Is(err, ErrDuplicate))

	other := &fixture{ctx: f.ctx, clock: f.clock, repos: f.repos, owner: uuid.New()}
	other.tenant(t, "ada@example.com")

	found, err := f.repos.Tenants.FindByEmail(f.ctx, f.owner, " ADA@example.com ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}

func TestTenant_IncludeDeletedHistory(t *testing.T) {
	f := newFixture(t)
	tn := f.tenant(t, "gone@example.com")
	res, err := f.repos.Tenants.SoftDelete(f.ctx, f.owner, tn.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)

	live, err := f.repos.Tenants.FindByOwnerWithSearch(f.ctx, f.owner, TenantQueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, live)

	all, err := f.repos.Tenants.FindByOwnerWithSearch(f.ctx, f.owner, TenantQueryOptions{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotNil(t, all[0].DeletedAt)
}

func TestTenant_AnalyticsRecordsInWindow(t *testing.T) {
	f := newFixture(t)
	f.tenant(t, "old@example.com")
	f.clock.Advance(7 * 24 * time.Hour)
	f.tenant(t, "boundary@example.com")
	f.clock.Advance(time.Hour)
	inside := f.tenant(t, "inside@example.com")
	f.clock.Advance(7*24*time.Hour - time.Hour)
	latest := f.tenant(t, "latest@example.com")

	got, err := f.repos.Tenants.GetAnalytics(f.ctx, f.owner, AnalyticsOptions{Timeframe: models.Timeframe7Days})
	require.NoError(t, err)
	require.Len(t, got.Records, 2)
	assert.Equal(t, inside.ID, got.Records[0].ID)
	assert.Equal(t, latest.ID, got.Records[1].ID)
	assert.Equal(t, 2.0, got.NewTenants.Current)

	all, err := f.repos.Tenants.GetAnalytics(f.ctx, f.owner, AnalyticsOptions{Timeframe: models.TimeframeAll})
	require.NoError(t, err)
	assert.Len(t, all.Records, 4)

	other, err := f.repos.Tenants.GetAnalytics(f.ctx, uuid.New(), AnalyticsOptions{})
	require.NoError(t, err)
	assert.Empty(t, other.Records)
}

func TestProperty_AnalyticsRecordsScoped(t *testing.T) {
	f := newFixture(t)
	a := f.property(t, "Alder")
	f.property(t, "Beech")

	got, err := f.repos.Properties.GetAnalytics(f.ctx, f.owner, AnalyticsOptions{PropertyID: &a.ID})
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, a.ID, got.Records[0].ID)

	portfolio, err := f.repos.Properties.GetAnalytics(f.ctx, f.owner, AnalyticsOptions{})
	require.NoError(t, err)
	assert.Len(t, portfolio.Records, 2)
}

func TestGetAnalytics_RejectsUnknownTimeframe(t *testing.T) {
	f := newFixture(t)
	_, err := f.repos.Properties.GetAnalytics(f.ctx, f.owner, AnalyticsOptions{Timeframe: "2w"})
	requireProblem(t, err, "timeframe", "validation_enum")
}

// contendedStore loses every optimistic write.
type contendedStore struct {
	store.Store
}

func (contendedStore) UpdateIfVersion(context.Context, *store.Document, int64) (bool, error) {
	return false, nil
}

func TestUpdate_ContentionIsRowVersionConflict(t *testing.T) {
	s, err := store.NewMemoryStore()
	require.NoError(t, err)
	owner := uuid.New()
	p, err := New(s).Properties.Create(context.Background(), owner, propertyInput("Contended"))
	require.NoError(t, err)

	repos := New(contendedStore{Store: s})
	_, err = repos.Properties.Update(context.Background(), p.ID, models.PropertyUpdate{Name: utils.Ptr("Renamed")})
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrRowVersionConflict)
	assert.ErrorIs(t, err, ErrRepository)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, 409, utils.ToAppError(err).StatusCode)

	got, err := repos.Properties.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Contended", got.Name)
}

func TestMapCache(t *testing.T) {
	c := NewMapCache[int]()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", CacheEntry[int]{Value: 7, StoredAt: now, TTL: time.Minute})
	e, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 7, e.Value)
	assert.True(t, e.Fresh(now.Add(59*time.Second)))
	assert.False(t, e.Fresh(now.Add(time.Minute)))
	assert.True(t, CacheEntry[int]{StoredAt: now}.Fresh(now.Add(24*time.Hour)))

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}
