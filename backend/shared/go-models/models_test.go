package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entityShape struct {
	name   string
	entity reflect.Type
	fields reflect.Type
	input  reflect.Type
	update reflect.Type
}

var entityShapes = []entityShape{
	{"Property", reflect.TypeOf(Property{}), reflect.TypeOf(PropertyFields{}), reflect.TypeOf(PropertyInput{}), reflect.TypeOf(PropertyUpdate{})},
	{"Unit", reflect.TypeOf(Unit{}), reflect.TypeOf(UnitFields{}), reflect.TypeOf(UnitInput{}), reflect.TypeOf(UnitUpdate{})},
	{"Tenant", reflect.TypeOf(Tenant{}), reflect.TypeOf(TenantFields{}), reflect.TypeOf(TenantInput{}), reflect.TypeOf(TenantUpdate{})},
	{"Lease", reflect.TypeOf(Lease{}), reflect.TypeOf(LeaseFields{}), reflect.TypeOf(LeaseInput{}), reflect.TypeOf(LeaseUpdate{})},
	{"MaintenanceRequest", reflect.TypeOf(MaintenanceRequest{}), reflect.TypeOf(MaintenanceRequestFields{}), reflect.TypeOf(MaintenanceRequestInput{}), reflect.TypeOf(MaintenanceRequestUpdate{})},
	{"CustomerInvoice", reflect.TypeOf(CustomerInvoice{}), reflect.TypeOf(CustomerInvoiceFields{}), reflect.TypeOf(CustomerInvoiceInput{}), reflect.TypeOf(CustomerInvoiceUpdate{})},
	{"Subscription", reflect.TypeOf(Subscription{}), reflect.TypeOf(SubscriptionFields{}), reflect.TypeOf(SubscriptionInput{}), reflect.TypeOf(SubscriptionUpdate{})},
	{"Notification", reflect.TypeOf(Notification{}), reflect.TypeOf(NotificationFields{}), reflect.TypeOf(NotificationInput{}), reflect.TypeOf(NotificationUpdate{})},
	{"User", reflect.TypeOf(User{}), reflect.TypeOf(UserFields{}), reflect.TypeOf(UserInput{}), reflect.TypeOf(UserUpdate{})},
}

func jsonNames(t reflect.Type) map[string]bool {
	out := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name != "" && name != "-" {
			out[name] = true
		}
	}
	return out
}

func TestInputs_OnlyCarryClientFields(t *testing.T) {
	for _, s := range entityShapes {
		t.Run(s.name, func(t *testing.T) {
			require.Equal(t, 1, s.input.NumField(), "input must only embed the field set")
			f := s.input.Field(0)
			assert.True(t, f.Anonymous)
			assert.Equal(t, s.fields, f.Type)

			embedded := false
			for i := 0; i < s.entity.NumField(); i++ {
				if ef := s.entity.Field(i); ef.Anonymous && ef.Type == s.fields {
					embedded = true
				}
			}
			assert.True(t, embedded, "entity must embed its field set")

			names := jsonNames(s.fields)
			for _, server := range []string{"id", "owner_id", "created_at", "updated_at", "deleted_at", "row_version"} {
				assert.False(t, names[server], "field set exposes server field %q", server)
			}
		})
	}
}

func TestUpdates_ArePartialAndNeverCarryIdentity(t *testing.T) {
	for _, s := range entityShapes {
		t.Run(s.name, func(t *testing.T) {
			writable := jsonNames(s.fields)
			for i := 0; i < s.update.NumField(); i++ {
				f := s.update.Field(i)
				assert.NotContains(t, []string{"ID", "OwnerID", "UserID"}, f.Name)

				name := strings.Split(f.Tag.Get("json"), ",")[0]
				assert.True(t, writable[name], "%s.%s is not a writable field", s.update.Name(), f.Name)

				switch f.Type.Kind() {
				case reflect.Pointer, reflect.Map:
				default:
					t.Errorf("%s.%s must be optional, got %s", s.update.Name(), f.Name, f.Type)
				}
			}
		})
	}
}

func TestPropertyUpdate_ApplyTo_OnlyTouchesSetFields(t *testing.T) {
	lat := 40.7
	p := &Property{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		PropertyFields: PropertyFields{
			Name:     "Maple Court",
			Type:     PropertyTypeApartment,
			City:     "Austin",
			Latitude: &lat,
		},
	}
	name := "Maple Court East"
	(&PropertyUpdate{Name: &name}).ApplyTo(p)

	assert.Equal(t, "Maple Court East", p.Name)
	assert.Equal(t, "Austin", p.City)
	assert.Equal(t, PropertyTypeApartment, p.Type)
	require.NotNil(t, p.Latitude)
	assert.Equal(t, 40.7, *p.Latitude)
}

func TestEnums_ParseIsCaseInsensitive(t *testing.T) {
	p, err := ParsePriority("urgent")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)

	tf, err := ParseTimeframe("30D")
	require.NoError(t, err)
	assert.Equal(t, Timeframe30Days, tf)

	_, err = ParseLeaseStatus("archived")
	assert.Error(t, err)

	assert.Len(t, PriorityLow.Values(), 5)
	assert.True(t, MaintenancePriority("EMERGENCY").Valid())
	assert.False(t, NotificationPriority("CRITICAL").Valid())
}

func TestLeaseStatus_Transitions(t *testing.T) {
	assert.True(t, LeaseStatusDraft.CanTransitionTo(LeaseStatusPending))
	assert.True(t, LeaseStatusPending.CanTransitionTo(LeaseStatusActive))
	assert.True(t, LeaseStatusActive.CanTransitionTo(LeaseStatusTerminated))
	assert.True(t, LeaseStatusActive.CanTransitionTo(LeaseStatusExpired))
	assert.False(t, LeaseStatusDraft.CanTransitionTo(LeaseStatusActive))
	assert.True(t, LeaseStatusDraft.CanTransitionTo(LeaseStatusTerminated))
	assert.True(t, LeaseStatusPending.CanTransitionTo(LeaseStatusTerminated))
	assert.True(t, LeaseStatusPending.CanTransitionTo(LeaseStatusDraft))
	assert.False(t, LeaseStatusDraft.CanTransitionTo(LeaseStatusExpired))

	for _, terminal := range []LeaseStatus{LeaseStatusExpired, LeaseStatusTerminated} {
		assert.True(t, terminal.IsTerminal())
		for _, next := range terminal.Values() {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
}

func TestMetadata_Validate(t *testing.T) {
	assert.NoError(t, Metadata{"floor": 3, "pets": true, "note": "x", "none": nil}.Validate())
	assert.Error(t, Metadata{"nested": map[string]any{"a": 1}}.Validate())
	assert.Error(t, Metadata{"list": []string{"a"}}.Validate())
	assert.Error(t, Metadata{"": "x"}.Validate())
}

func TestCustomerInvoice_RecalculateTotals(t *testing.T) {
	inv := &CustomerInvoice{CustomerInvoiceFields: CustomerInvoiceFields{
		TaxRate: 0.0825,
		LineItems: []InvoiceLineItem{
			{Description: "Rent", Quantity: 1, UnitPrice: 1450},
			{Description: "Parking", Quantity: 2, UnitPrice: 37.333},
		},
	}}
	inv.RecalculateTotals()

	assert.Equal(t, 74.67, inv.LineItems[1].Amount)
	assert.Equal(t, 1524.67, inv.Subtotal)
	assert.Equal(t, 125.79, inv.TaxAmount)
	assert.Equal(t, 1650.46, inv.Total)
}

func TestTimeframe_Windows(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	from, to := Timeframe7Days.Window(now)
	assert.Equal(t, now.AddDate(0, 0, -7), from)
	assert.Equal(t, now, to)

	pFrom, pTo, ok := Timeframe7Days.PreviousWindow(now)
	require.True(t, ok)
	assert.Equal(t, from, pTo)
	assert.Equal(t, now.AddDate(0, 0, -14), pFrom)

	_, _, ok = TimeframeAll.PreviousWindow(now)
	assert.False(t, ok)

	assert.True(t, Contains(from, to, now))
	assert.False(t, Contains(from, to, from))
	assert.True(t, Contains(pFrom, pTo, from))
}

func TestEntityJSON_FlattensEmbeddedFields(t *testing.T) {
	tn := Tenant{ID: uuid.New(), TenantFields: TenantFields{FirstName: "Ada", Email: "ada@example.com"}}
	raw, err := json.Marshal(tn)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "Ada", m["first_name"])
	assert.Contains(t, m, "deleted_at")
	assert.Contains(t, m, "row_version")
	assert.Nil(t, m["deleted_at"])
}
