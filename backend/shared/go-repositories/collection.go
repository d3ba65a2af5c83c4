package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

// uniqueKey names the field a collection enforces uniqueness on. Scope
// narrows it (unit number per property, email per owner); uuid.Nil means
// global.
type uniqueKey struct {
	Field string
	Value string
	Scope uuid.UUID
}

func (k *uniqueKey) storeKey() string {
	v := strings.ToLower(strings.TrimSpace(k.Value))
	if k.Scope == uuid.Nil {
		return k.Field + "|" + v
	}
	return k.Field + "|" + k.Scope.String() + "|" + v
}

var errAlreadyDeleted = errors.New("already deleted")

// record is the collection element: an entity pointer.
type record interface {
	comparable
	models.Record
}

/*
collection maps one entity type onto a store collection. It gives you:

  - get / list / findUnique   (decode + soft-delete scoping)
  - insert                    (stamp, encode, duplicate mapping)
  - mutate                    (optimistic read‑mutate‑update via store.WithRetry)
  - softDelete / hardDelete
*/
type collection[T record] struct {
	name       string
	entity     string
	store      store.Store
	now        func() time.Time
	maxRetries int
	alloc      func() T
	index      func(T) ([]string, *uniqueKey)
}

func (c *collection[T]) notFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Entity: c.entity, ID: id.String()}
}

func (c *collection[T]) encodeInto(doc *store.Document, e T) error {
	data, err := json.Marshal(e)
	if err != nil {
		return storeFailure("encode "+c.entity, err)
	}
	refs, uk := c.index(e)

	doc.Collection = c.name
	doc.ID = e.GetID()
	doc.OwnerID = e.GetOwnerID()
	doc.Refs = refs
	doc.UniqueKey = ""
	if uk != nil {
		doc.UniqueKey = uk.storeKey()
	}
	doc.Data = data
	doc.CreatedAt = e.GetCreatedAt()
	doc.UpdatedAt = e.GetUpdatedAt()
	doc.DeletedAt = nil
	if sd, ok := any(e).(models.SoftDeletable); ok {
		doc.DeletedAt = sd.GetDeletedAt()
	}
	return nil
}

func (c *collection[T]) decode(doc *store.Document) (T, error) {
	e := c.alloc()
	if err := json.Unmarshal(doc.Data, any(e)); err != nil {
		var zero T
		return zero, storeFailure("decode "+c.entity, err)
	}
	e.SetRowVersion(doc.RowVersion)
	return e, nil
}

func (c *collection[T]) duplicate(e T, err error) error {
	if !errors.Is(err, store.ErrDuplicateKey) {
		return storeFailure("write "+c.entity, err)
	}
	_, uk := c.index(e)
	if uk == nil {
		return &DuplicateError{Entity: c.entity, Field: "id", Value: e.GetID().String()}
	}
	return &DuplicateError{Entity: c.entity, Field: uk.Field, Value: uk.Value}
}

/* ---------- Reads ---------- */

// get returns the zero T when the document is absent, or soft-deleted and
// includeDeleted is false.
func (c *collection[T]) get(ctx context.Context, id uuid.UUID, includeDeleted bool) (T, error) {
	var zero T
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to load %s %s", c.entity, id)
		return zero, storeFailure("get "+c.entity, err)
	}
	if doc == nil || (doc.IsDeleted() && !includeDeleted) {
		return zero, nil
	}
	return c.decode(doc)
}

// getOwned hides records that belong to another owner.
func (c *collection[T]) getOwned(ctx context.Context, ownerID, id uuid.UUID, includeDeleted bool) (T, error) {
	var zero T
	e, err := c.get(ctx, id, includeDeleted)
	if err != nil || e == zero || e.GetOwnerID() != ownerID {
		return zero, err
	}
	return e, nil
}

func (c *collection[T]) list(ctx context.Context, f store.Filter) ([]T, error) {
	docs, err := c.store.List(ctx, c.name, f)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to list %s", c.name)
		return nil, storeFailure("list "+c.name, err)
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		e, err := c.decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *collection[T]) listByOwner(ctx context.Context, ownerID uuid.UUID, includeDeleted bool) ([]T, error) {
	return c.list(ctx, store.Filter{OwnerID: &ownerID, IncludeDeleted: includeDeleted})
}

func (c *collection[T]) listByRef(ctx context.Context, ownerID uuid.UUID, ref string, includeDeleted bool) ([]T, error) {
	return c.list(ctx, store.Filter{OwnerID: &ownerID, Ref: ref, IncludeDeleted: includeDeleted})
}

func (c *collection[T]) findUnique(ctx context.Context, key uniqueKey) (T, error) {
	var zero T
	doc, err := c.store.GetByUniqueKey(ctx, c.name, key.storeKey())
	if err != nil {
		return zero, storeFailure("get "+c.entity+" by "+key.Field, err)
	}
	if doc == nil {
		return zero, nil
	}
	return c.decode(doc)
}

/* ---------- Writes ---------- */

func (c *collection[T]) insert(ctx context.Context, e T) (T, error) {
	var zero T
	e.Stamp(c.now())

	doc := &store.Document{}
	if err := c.encodeInto(doc, e); err != nil {
		return zero, err
	}
	if err := c.store.Insert(ctx, doc); err != nil {
		if !errors.Is(err, store.ErrDuplicateKey) {
			utils.Logger.WithError(err).Errorf("Failed to insert %s %s", c.entity, e.GetID())
		}
		return zero, c.duplicate(e, err)
	}
	e.SetRowVersion(doc.RowVersion)
	return e, nil
}

// mutate applies fn under optimistic locking and refreshes UpdatedAt. A
// missing or soft-deleted record yields *NotFoundError; errors returned by
// fn are passed through untouched and nothing is written.
func (c *collection[T]) mutate(ctx context.Context, id uuid.UUID, fn func(T) error) (T, error) {
	var (
		zero   T
		result T
	)
	doc, err := store.WithRetry(ctx, c.store, c.name, id, c.maxRetries, func(doc *store.Document) error {
		if doc.IsDeleted() {
			return c.notFound(id)
		}
		e, err := c.decode(doc)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
		e.Touch(c.now())
		if err := c.encodeInto(doc, e); err != nil {
			return err
		}
		result = e
		return nil
	})
	if err != nil {
		return zero, c.writeError(id, result, err)
	}
	result.SetRowVersion(doc.RowVersion)
	return result, nil
}

func (c *collection[T]) writeError(id uuid.UUID, attempted T, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.notFound(id)
	case errors.Is(err, store.ErrDuplicateKey):
		return c.duplicate(attempted, err)
	case errors.Is(err, ErrRepository):
		return err
	case errors.Is(err, store.ErrConflict):
		utils.Logger.WithError(err).Warnf("Contention updating %s %s", c.entity, id)
		return storeFailure("update "+c.entity, fmt.Errorf("%w: %w", utils.ErrRowVersionConflict, err))
	default:
		utils.Logger.WithError(err).Errorf("Failed to update %s %s", c.entity, id)
		return storeFailure("update "+c.entity, err)
	}
}

// softDelete never fails on absence: it reports it in the result.
func (c *collection[T]) softDelete(ctx context.Context, ownerID, id uuid.UUID) (models.DeleteResult, error) {
	notFound := models.DeleteResult{Success: false, Message: fmt.Sprintf("%s %s not found", c.entity, id)}
	already := models.DeleteResult{Success: true, Message: c.entity + " already deleted"}

	var zero T
	current, err := c.get(ctx, id, true)
	if err != nil {
		return models.DeleteResult{}, err
	}
	if current == zero || current.GetOwnerID() != ownerID {
		return notFound, nil
	}

	_, err = store.WithRetry(ctx, c.store, c.name, id, c.maxRetries, func(doc *store.Document) error {
		if doc.IsDeleted() {
			return errAlreadyDeleted
		}
		e, err := c.decode(doc)
		if err != nil {
			return err
		}
		sd, ok := any(e).(models.SoftDeletable)
		if !ok {
			return storeFailure(c.entity+" does not support soft delete", nil)
		}
		now := c.now()
		sd.MarkDeleted(now)
		e.Touch(now)
		return c.encodeInto(doc, e)
	})
	switch {
	case err == nil:
		return models.DeleteResult{Success: true, Message: c.entity + " deleted"}, nil
	case errors.Is(err, errAlreadyDeleted):
		return already, nil
	case errors.Is(err, store.ErrNotFound):
		return notFound, nil
	default:
		return models.DeleteResult{}, c.writeError(id, current, err)
	}
}

// hardDelete removes the record, failing with *NotFoundError when absent.
func (c *collection[T]) hardDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	var zero T
	current, err := c.get(ctx, id, true)
	if err != nil {
		return err
	}
	if current == zero || current.GetOwnerID() != ownerID {
		return c.notFound(id)
	}
	ok, err := c.store.Delete(ctx, c.name, id)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to delete %s %s", c.entity, id)
		return storeFailure("delete "+c.entity, err)
	}
	if !ok {
		return c.notFound(id)
	}
	return nil
}

// absentIfNotFound turns *NotFoundError into (nil, nil) for domains whose
// Update reports absence rather than failing.
func absentIfNotFound[T any](e *T, err error) (*T, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return e, err
}
