package repositories

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	OrderAsc  = "asc"
	OrderDesc = "desc"

	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
)

// QueryOptions is shared by every list operation. Offset is canonical:
// a positive Page is converted to an offset, otherwise Page is derived.
type QueryOptions struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
	Search string `json:"search"`
}

// Normalize clamps Limit into [1, MaxLimit], reconciles Page and Offset
// and fills the sort defaults. It never yields an unbounded query.
func (q QueryOptions) Normalize() QueryOptions {
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Page > math.MaxInt/q.Limit {
		q.Page = math.MaxInt / q.Limit
	}
	if q.Page >= 1 {
		q.Offset = (q.Page - 1) * q.Limit
	} else {
		q.Page = q.Offset/q.Limit + 1
	}

	q.Order = strings.ToLower(strings.TrimSpace(q.Order))
	if q.Order != OrderAsc {
		q.Order = OrderDesc
	}
	if q.Sort == "" {
		q.Sort = SortCreatedAt
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

type PropertyQueryOptions struct {
	QueryOptions
	Status *models.PropertyStatus `json:"status"`
	Type   *models.PropertyType   `json:"type"`
	City   string                 `json:"city"`
	// Near keeps geocoded properties within the radius.
	Near *GeoRadius `json:"near"`
}

type GeoRadius struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	RadiusMiles float64 `json:"radius_miles"`
}

func (g *GeoRadius) contains(lat, lng *float64) bool {
	if g == nil {
		return true
	}
	if lat == nil || lng == nil {
		return false
	}
	return utils.DistanceMiles(g.Latitude, g.Longitude, *lat, *lng) <= g.RadiusMiles
}

type UnitQueryOptions struct {
	QueryOptions
	PropertyID  *uuid.UUID         `json:"property_id"`
	Status      *models.UnitStatus `json:"status"`
	MinBedrooms *int               `json:"min_bedrooms"`
	MaxRent     *float64           `json:"max_rent"`
}

type TenantQueryOptions struct {
	QueryOptions
	Status         *models.TenantStatus `json:"status"`
	IncludeDeleted bool                 `json:"include_deleted"`
}

type LeaseQueryOptions struct {
	QueryOptions
	PropertyID *uuid.UUID          `json:"property_id"`
	UnitID     *uuid.UUID          `json:"unit_id"`
	TenantID   *uuid.UUID          `json:"tenant_id"`
	Status     *models.LeaseStatus `json:"status"`
	StartFrom  *time.Time          `json:"start_from"`
	StartTo    *time.Time          `json:"start_to"`
	EndFrom    *time.Time          `json:"end_from"`
	EndTo      *time.Time          `json:"end_to"`
}

type MaintenanceQueryOptions struct {
	QueryOptions
	PropertyID *uuid.UUID                  `json:"property_id"`
	UnitID     *uuid.UUID                  `json:"unit_id"`
	TenantID   *uuid.UUID                  `json:"tenant_id"`
	Status     *models.MaintenanceStatus   `json:"status"`
	Priority   *models.MaintenancePriority `json:"priority"`
	Category   *models.MaintenanceCategory `json:"category"`
	AssignedTo string                      `json:"assigned_to"`
}

type InvoiceQueryOptions struct {
	QueryOptions
	Status        *models.InvoiceStatus `json:"status"`
	CustomerEmail string                `json:"customer_email"`
	DueFrom       *time.Time            `json:"due_from"`
	DueTo         *time.Time            `json:"due_to"`
}

type NotificationQueryOptions struct {
	QueryOptions
	UnreadOnly bool                     `json:"unread_only"`
	Type       *models.NotificationType `json:"type"`
}

// AnalyticsOptions bounds GetAnalytics. A nil PropertyID covers the whole
// portfolio; an empty Timeframe means 30d.
type AnalyticsOptions struct {
	PropertyID *uuid.UUID       `json:"property_id"`
	Timeframe  models.Timeframe `json:"timeframe"`
}

func (a AnalyticsOptions) timeframe() models.Timeframe {
	if a.Timeframe == "" {
		return models.Timeframe30Days
	}
	return a.Timeframe
}

/* ------------------------------------------------------------------
   In-memory paging shared by every domain
------------------------------------------------------------------ */

// compareFunc orders two items by one sort field. Every domain registers
// its own; unknown keys fall back to createdAt.
type compareFunc[T any] func(a, b T) int

type listSpec[T models.Record] struct {
	// searchText returns the fields matched by QueryOptions.Search.
	searchText func(T) []string
	sortKeys   map[string]compareFunc[T]
}

func byString[T any](f func(T) string) compareFunc[T] {
	return func(a, b T) int { return cmp.Compare(strings.ToLower(f(a)), strings.ToLower(f(b))) }
}

func byNumber[T any, N cmp.Ordered](f func(T) N) compareFunc[T] {
	return func(a, b T) int { return cmp.Compare(f(a), f(b)) }
}

func byTime[T any](f func(T) time.Time) compareFunc[T] {
	return func(a, b T) int { return f(a).Compare(f(b)) }
}

// paginate applies search, then sort, then offset/limit.
func paginate[T models.Record](items []T, q QueryOptions, spec listSpec[T]) []T {
	q = q.Normalize()

	if q.Search != "" && spec.searchText != nil {
		needle := strings.ToLower(q.Search)
		items = slices.DeleteFunc(items, func(it T) bool {
			for _, field := range spec.searchText(it) {
				if strings.Contains(strings.ToLower(field), needle) {
					return false
				}
			}
			return true
		})
	}

	compare, ok := spec.sortKeys[q.Sort]
	switch {
	case ok:
	case q.Sort == SortUpdatedAt:
		compare = byTime(func(it T) time.Time { return it.GetUpdatedAt() })
	default:
		compare = byTime(func(it T) time.Time { return it.GetCreatedAt() })
	}

	slices.SortStableFunc(items, func(a, b T) int {
		c := compare(a, b)
		if c == 0 {
			c = cmp.Compare(a.GetID().String(), b.GetID().String())
		}
		if q.Order == OrderDesc {
			return -c
		}
		return c
	})

	if q.Offset >= len(items) {
		return []T{}
	}
	end := min(q.Offset+q.Limit, len(items))
	return items[q.Offset:end]
}
