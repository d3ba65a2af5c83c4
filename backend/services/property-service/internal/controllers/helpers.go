package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/poofware/mono-repo/backend/shared/go-dtos"
	"github.com/poofware/mono-repo/backend/shared/go-middleware"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const maxBodyBytes = 1 << 20

// badRequest carries a parse failure on a query or path parameter.
type badRequest struct {
	field string
	err   error
}

func (e *badRequest) Error() string { return fmt.Sprintf("invalid %s: %v", e.field, e.err) }
func (e *badRequest) Code() string  { return utils.ErrCodeInvalidPayload }
func (e *badRequest) Details() any {
	return []dtos.ValidationErrorDetail{dtos.NewValidationErrorDetail(e.field, e.err.Error(), "invalid")}
}

func requireOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing owner in token", nil)
		return uuid.Nil, false
	}
	return ownerID, true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, &badRequest{field: "id", err: errors.New("must be a UUID")})
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON rejects unknown fields and bodies over maxBodyBytes. An empty
// body leaves dst untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	return true
}

// notFound is returned for records that are missing or owned by someone else.
func notFound(w http.ResponseWriter, entity string) {
	utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, entity+" not found", nil)
}

func owned[R interface {
	comparable
	GetOwnerID() uuid.UUID
}](rec R, ownerID uuid.UUID) bool {
	var zero R
	return rec != zero && rec.GetOwnerID() == ownerID
}

type query struct {
	values url.Values
	err    error
}

func newQuery(r *http.Request) *query { return &query{values: r.URL.Query()} }

func (q *query) str(key string) string {
	if v := q.values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (q *query) fail(key string, err error) {
	if q.err == nil {
		q.err = &badRequest{field: key, err: err}
	}
}

func (q *query) int(key string) int {
	s := q.str(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		q.fail(key, errors.New("must be an integer"))
	}
	return n
}

func (q *query) intPtr(key string) *int {
	if q.str(key) == "" {
		return nil
	}
	return utils.Ptr(q.int(key))
}

func (q *query) floatPtr(key string) *float64 {
	s := q.str(key)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		q.fail(key, errors.New("must be a number"))
		return nil
	}
	return &f
}

func (q *query) bool(key string) bool {
	s := q.str(key)
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		q.fail(key, errors.New("must be true or false"))
	}
	return b
}

func (q *query) uuidPtr(key string) *uuid.UUID {
	s := q.str(key)
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		q.fail(key, errors.New("must be a UUID"))
		return nil
	}
	return &id
}

func (q *query) timePtr(key string) *time.Time {
	s := q.str(key)
	if s == "" {
		return nil
	}
	t, err := dtos.ParseTime(key, s)
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &t
}

func (q *query) duration(key string, def time.Duration) time.Duration {
	s := q.str(key)
	if s == "" {
		return def
	}
	if days, err := strconv.Atoi(s); err == nil {
		return time.Duration(days) * 24 * time.Hour
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		q.fail(key, errors.New("must be a day count or a duration"))
	}
	return d
}

// enumPtr parses an optional enum value with its model parser.
func enumPtr[T ~string](q *query, key string, parse func(string) (T, error)) *T {
	s := q.str(key)
	if s == "" {
		return nil
	}
	v, err := parse(s)
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &v
}

// near reads lat, lng and radius (miles) as a group. All three are required
// once any is given.
func (q *query) near() *repositories.GeoRadius {
	lat, lng, radius := q.floatPtr("lat"), q.floatPtr("lng"), q.floatPtr("radius")
	switch {
	case lat == nil && lng == nil && radius == nil:
		return nil
	case lat == nil || lng == nil || radius == nil:
		q.fail("radius", errors.New("lat, lng and radius must be given together"))
		return nil
	}
	return &repositories.GeoRadius{Latitude: *lat, Longitude: *lng, RadiusMiles: *radius}
}

func (q *query) options() repositories.QueryOptions {
	return repositories.QueryOptions{
		Page:   q.int("page"),
		Limit:  q.int("limit"),
		Offset: q.int("offset"),
		Sort:   q.str("sort"),
		Order:  q.str("order"),
		Search: q.str("search"),
	}
}

func (q *query) analytics() repositories.AnalyticsOptions {
	return repositories.AnalyticsOptions{
		PropertyID: q.uuidPtr("property_id"),
		Timeframe:  *orDefault(enumPtr(q, "timeframe", models.ParseTimeframe), models.Timeframe30Days),
	}
}

func orDefault[T any](p *T, def T) *T {
	if p == nil {
		return &def
	}
	return p
}

// respond writes the result of a repository call, or its error.
func respond(w http.ResponseWriter, status int, payload any, err error) {
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, status, payload)
}

func respondList[T any](w http.ResponseWriter, items []T, opts repositories.QueryOptions, err error) {
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	n := opts.Normalize()
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewListResponse(items, n.Page, n.Limit, n.Offset))
}

// loadOwned resolves the owner and the {id} record. It answers the request
// and reports false when either is missing or the record belongs to
// another owner.
func loadOwned[R interface {
	comparable
	GetOwnerID() uuid.UUID
}](w http.ResponseWriter, r *http.Request, entity string, find func(context.Context, uuid.UUID) (R, error)) (uuid.UUID, R, bool) {
	var zero R
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return uuid.Nil, zero, false
	}
	id, ok := pathID(w, r)
	if !ok {
		return uuid.Nil, zero, false
	}
	rec, err := find(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return uuid.Nil, zero, false
	}
	if !owned(rec, ownerID) {
		notFound(w, entity)
		return uuid.Nil, zero, false
	}
	return ownerID, rec, true
}

// ownerAndID resolves the owner and the {id} path parameter.
func ownerAndID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := pathID(w, r)
	return ownerID, id, ok
}

// respondFound answers 404 for a nil result.
func respondFound[T any](w http.ResponseWriter, entity string, v *T, err error) {
	if err == nil && v == nil {
		notFound(w, entity)
		return
	}
	respond(w, http.StatusOK, v, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// respondAs serializes a single record with fn before writing it.
func respondAs[M any, D any](w http.ResponseWriter, status int, entity string, m *M, err error, fn func(*M) D) {
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if m == nil {
		notFound(w, entity)
		return
	}
	utils.RespondWithJSON(w, status, fn(m))
}
