// go-models/versioned.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Versioned adds optimistic‑lock helpers. Embed it anonymously.
type Versioned struct {
	RowVersion int64 `json:"row_version"`
}

// ----- interface helpers -----
func (v *Versioned) GetRowVersion() int64  { return v.RowVersion }
func (v *Versioned) SetRowVersion(n int64) { v.RowVersion = n }

// Timestamps carries the created/updated pair every persisted entity has.
// CreatedAt is written exactly once; UpdatedAt moves on every mutation.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Timestamps) GetCreatedAt() time.Time { return t.CreatedAt }
func (t *Timestamps) GetUpdatedAt() time.Time { return t.UpdatedAt }

// Stamp initialises both timestamps for a freshly created record.
func (t *Timestamps) Stamp(now time.Time) {
	t.CreatedAt = now
	t.UpdatedAt = now
}

func (t *Timestamps) Touch(now time.Time) { t.UpdatedAt = now }

// SoftDelete marks a record hidden from default-scope reads without
// removing it.
type SoftDelete struct {
	DeletedAt *time.Time `json:"deleted_at"`
}

func (s *SoftDelete) GetDeletedAt() *time.Time { return s.DeletedAt }
func (s *SoftDelete) IsDeleted() bool          { return s.DeletedAt != nil }
func (s *SoftDelete) MarkDeleted(now time.Time) {
	if s.DeletedAt == nil {
		s.DeletedAt = &now
	}
}

// Record is implemented by every persisted entity pointer.
type Record interface {
	GetID() uuid.UUID
	GetOwnerID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
	Stamp(now time.Time)
	Touch(now time.Time)
	GetRowVersion() int64
	SetRowVersion(int64)
}

// SoftDeletable is implemented by records that support non-destructive
// deletion.
type SoftDeletable interface {
	GetDeletedAt() *time.Time
	IsDeleted() bool
	MarkDeleted(now time.Time)
}

// DeleteResult is returned by soft-delete operations instead of an error
// when the target is missing or already gone.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
