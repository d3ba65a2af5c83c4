package routes

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/app"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/config"
	"github.com/poofware/mono-repo/backend/shared/go-dtos"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-testhelpers"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*testhelpers.TestHelper, http.Handler) {
	h := testhelpers.NewTestHelper(t)
	t.Setenv("PROPERTY_AUTH_PUBLIC_KEY_BASE64", h.PublicKeyBase64())
	cfg, err := config.Load()
	require.NoError(t, err)
	a := app.NewAppWithStore(cfg, h.Store, repositories.WithClock(h.Clock.Now))
	return h, NewRouter(a)
}

func propertyBody(name string) map[string]any {
	return map[string]any{
		"name":     name,
		"type":     models.PropertyTypeApartment,
		"address":  "500 Congress Ave",
		"city":     "Austin",
		"state":    "TX",
		"zip_code": "78701",
	}
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	h, router := newTestRouter(t)

	var health dtos.HealthCheckResponse
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, Health, "", nil)), http.StatusOK, &health)
	assert.Equal(t, "OK", health.Status)
	assert.Equal(t, config.AppName, health.Service)

	rec := h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, Metrics, "", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "property_service_http_requests_total")
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	h, router := newTestRouter(t)
	owner := uuid.New()

	rec := h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, Properties, "", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, Properties, h.CreateExpiredJWT(owner), nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProperties_CreateListAndIsolation(t *testing.T) {
	h, router := newTestRouter(t)
	owner, other := uuid.New(), uuid.New()
	jwt := h.CreateJWT(owner, models.UserRoleOwner)

	var created models.Property
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodPost, Properties, jwt, propertyBody("Riverside"))),
		http.StatusCreated, &created)
	assert.Equal(t, owner, created.OwnerID)

	var list dtos.ListResponse[models.Property]
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, Properties+"?limit=500", jwt, nil)),
		http.StatusOK, &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, repositories.MaxLimit, list.Limit)

	target := fmt.Sprintf("%s/properties/%s", APIPrefix, created.ID)
	otherJWT := h.CreateJWT(other, models.UserRoleOwner)
	rec := h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, target, otherJWT, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = h.DoRequest(router, h.BuildAuthRequest(http.MethodPatch, target, otherJWT, map[string]any{"name": "Mine now"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var stats models.PropertyStats
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, PropertiesStats, jwt, nil)),
		http.StatusOK, &stats)
	assert.Equal(t, 1, stats.TotalProperties)

	var del dtos.DeleteResponse
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodDelete, target, jwt, nil)), http.StatusOK, &del)
	assert.True(t, del.Success)
}

func TestProperties_ValidationErrors(t *testing.T) {
	h, router := newTestRouter(t)
	jwt := h.CreateJWT(uuid.New(), models.UserRoleOwner)

	var body utils.ErrorResponse
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodPost, Properties, jwt, map[string]any{"name": ""})),
		http.StatusBadRequest, &body)
	assert.Equal(t, utils.ErrCodeValidation, body.Code)
	assert.NotEmpty(t, body.Details)

	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodPost, Properties, jwt, []byte(`{"bogus":1}`))),
		http.StatusBadRequest, &body)
	assert.Equal(t, utils.ErrCodeInvalidPayload, body.Code)

	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, Properties+"?status=SOLD_OUT", jwt, nil)),
		http.StatusBadRequest, &body)
	assert.Equal(t, utils.ErrCodeInvalidPayload, body.Code)

	rec := h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, APIPrefix+"/properties/not-a-uuid", jwt, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnits_DeleteBlockedByActiveLease(t *testing.T) {
	h, router := newTestRouter(t)
	owner := uuid.New()
	jwt := h.CreateJWT(owner, models.UserRoleOwner)

	prop := h.CreateTestProperty(owner, "Lakeside")
	unit := h.CreateTestUnit(owner, prop.ID, "1A", 1500)
	tenant := h.CreateTestTenant(owner, "unit-delete")
	h.CreateActiveLease(owner, unit, tenant.ID, testhelpers.DefaultNow.AddDate(0, -1, 0), testhelpers.DefaultNow.AddDate(1, 0, 0))

	var body utils.ErrorResponse
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodDelete, fmt.Sprintf("%s/units/%s", APIPrefix, unit.ID), jwt, nil)),
		http.StatusBadRequest, &body)
	assert.Equal(t, utils.ErrCodeValidation, body.Code)

	var units dtos.ListResponse[models.Unit]
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, fmt.Sprintf("%s/properties/%s/units", APIPrefix, prop.ID), jwt, nil)),
		http.StatusOK, &units)
	require.Len(t, units.Data, 1)
	assert.Equal(t, models.UnitStatusOccupied, units.Data[0].Status)
}

func TestAdminExpireLeases(t *testing.T) {
	h, router := newTestRouter(t)
	owner := uuid.New()

	prop := h.CreateTestProperty(owner, "Hillcrest")
	unit := h.CreateTestUnit(owner, prop.ID, "2B", 1200)
	tenant := h.CreateTestTenant(owner, "expire")
	h.CreateActiveLease(owner, unit, tenant.ID, testhelpers.DefaultNow.AddDate(0, -6, 0), testhelpers.DefaultNow.Add(72*time.Hour))

	rec := h.DoRequest(router, h.BuildAuthRequest(http.MethodPost, AdminExpireLeases, h.CreateJWT(owner, models.UserRoleOwner), nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var out map[string]int
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodPost, AdminExpireLeases, h.CreateJWT(uuid.New(), models.UserRoleAdmin), nil)),
		http.StatusOK, &out)
	assert.Equal(t, 1, out["expired"])

	var unread map[string]int
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodGet, NotificationsUnreadCount, h.CreateJWT(owner, models.UserRoleOwner), nil)),
		http.StatusOK, &unread)
	assert.Equal(t, 1, unread["unread"])
}

func TestNotifications_SendToOthersNeedsAdmin(t *testing.T) {
	h, router := newTestRouter(t)
	owner := uuid.New()
	jwt := h.CreateJWT(owner, models.UserRoleOwner)

	req := map[string]any{"type": models.NotificationTypeSystem, "title": "Hello", "message": "Welcome aboard"}
	var sent []models.Notification
	h.DecodeJSON(h.DoRequest(router, h.BuildAuthRequest(http.MethodPost, Notifications, jwt, req)), http.StatusCreated, &sent)
	require.Len(t, sent, 1)
	assert.Equal(t, owner, sent[0].UserID)

	req["user_id"] = uuid.New()
	rec := h.DoRequest(router, h.BuildAuthRequest(http.MethodPost, Notifications, jwt, req))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
