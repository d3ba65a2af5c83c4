// Package store is the persistence collaborator behind the repositories:
// a collection-scoped document store with owner and reference indexes,
// per-collection unique keys and row-version optimistic locking.
package store

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("document not found")
	ErrConflict     = errors.New("row version conflict")
)

// Document is one persisted entity. Data holds the JSON encoding of the
// entity; the remaining fields are indexed copies the store filters on.
type Document struct {
	Collection string
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Refs       []string
	// UniqueKey must be unique among live (not soft-deleted) documents of
	// the same collection. Empty means none.
	UniqueKey  string
	Data       []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
	RowVersion int64
}

func (d *Document) IsDeleted() bool { return d.DeletedAt != nil }

func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Refs = slices.Clone(d.Refs)
	c.Data = slices.Clone(d.Data)
	if d.DeletedAt != nil {
		t := *d.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

// Filter narrows List. A nil OwnerID scans the whole collection.
type Filter struct {
	OwnerID        *uuid.UUID
	Ref            string
	IncludeDeleted bool
}

func (f Filter) matches(d *Document) bool {
	if f.OwnerID != nil && d.OwnerID != *f.OwnerID {
		return false
	}
	if f.Ref != "" && !slices.Contains(d.Refs, f.Ref) {
		return false
	}
	if !f.IncludeDeleted && d.IsDeleted() {
		return false
	}
	return true
}

// Store is implemented by MemoryStore and PostgresStore. Get and
// GetByUniqueKey return nil, nil when nothing matches. Each call completes
// before returning, so one caller's writes are applied in issue order.
type Store interface {
	Get(ctx context.Context, collection string, id uuid.UUID) (*Document, error)
	GetByUniqueKey(ctx context.Context, collection, key string) (*Document, error)
	List(ctx context.Context, collection string, f Filter) ([]*Document, error)
	// Insert sets RowVersion to 1. It fails with ErrDuplicateKey when the id
	// or a live unique key already exists.
	Insert(ctx context.Context, doc *Document) error
	// UpdateIfVersion replaces the document only when its stored row
	// version equals expected, advancing doc.RowVersion on success.
	UpdateIfVersion(ctx context.Context, doc *Document, expected int64) (bool, error)
	Delete(ctx context.Context, collection string, id uuid.UUID) (bool, error)
}

// Ref builds a reference key such as "unit:<id>".
func Ref(kind string, id uuid.UUID) string {
	return kind + ":" + id.String()
}
