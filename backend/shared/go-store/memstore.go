package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"
)

const memTable = "documents"

// memRow is what go-memdb indexes. Every indexed value is prefixed with
// the collection so one table serves all collections.
type memRow struct {
	Key        string
	Collection string
	Owner      string
	Refs       []string
	Unique     string
	Doc        *Document
}

func scoped(collection, v string) string { return collection + "/" + v }

func newMemRow(d *Document) *memRow {
	refs := make([]string, 0, len(d.Refs))
	for _, r := range d.Refs {
		refs = append(refs, scoped(d.Collection, r))
	}
	unique := ""
	if d.UniqueKey != "" {
		unique = scoped(d.Collection, d.UniqueKey)
	}
	return &memRow{
		Key:        scoped(d.Collection, d.ID.String()),
		Collection: d.Collection,
		Owner:      scoped(d.Collection, d.OwnerID.String()),
		Refs:       refs,
		Unique:     unique,
		Doc:        d.Clone(),
	}
}

func memSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			memTable: {
				Name: memTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
					"collection": {
						Name:    "collection",
						Indexer: &memdb.StringFieldIndex{Field: "Collection"},
					},
					"owner": {
						Name:    "owner",
						Indexer: &memdb.StringFieldIndex{Field: "Owner"},
					},
					"ref": {
						Name:         "ref",
						AllowMissing: true,
						Indexer:      &memdb.StringSliceFieldIndex{Field: "Refs"},
					},
					// Not unique at the memdb level: soft-deleted rows keep
					// their key, so liveness is checked in the write txn.
					"unique": {
						Name:         "unique",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "Unique"},
					},
				},
			},
		},
	}
}

// MemoryStore is an in-process Store backed by go-memdb. Write
// transactions are serialized by memdb, which makes the unique-key check
// and the write atomic.
type MemoryStore struct {
	db *memdb.MemDB
}

func NewMemoryStore() (*MemoryStore, error) {
	db, err := memdb.NewMemDB(memSchema())
	if err != nil {
		return nil, errors.Wrap(err, "create memdb")
	}
	return &MemoryStore{db: db}, nil
}

func (s *MemoryStore) Get(_ context.Context, collection string, id uuid.UUID) (*Document, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(memTable, "id", scoped(collection, id.String()))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*memRow).Doc.Clone(), nil
}

func (s *MemoryStore) GetByUniqueKey(_ context.Context, collection, key string) (*Document, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	live, err := liveByUnique(txn, collection, key, uuid.Nil)
	if err != nil || live == nil {
		return nil, err
	}
	return live.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context, collection string, f Filter) ([]*Document, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	var (
		it  memdb.ResultIterator
		err error
	)
	switch {
	case f.Ref != "":
		it, err = txn.Get(memTable, "ref", scoped(collection, f.Ref))
	case f.OwnerID != nil:
		it, err = txn.Get(memTable, "owner", scoped(collection, f.OwnerID.String()))
	default:
		it, err = txn.Get(memTable, "collection", collection)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var out []*Document
	for raw := it.Next(); raw != nil; raw = it.Next() {
		row := raw.(*memRow)
		if row.Collection != collection || !f.matches(row.Doc) {
			continue
		}
		out = append(out, row.Doc.Clone())
	}
	return out, nil
}

func (s *MemoryStore) Insert(_ context.Context, doc *Document) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(memTable, "id", scoped(doc.Collection, doc.ID.String()))
	if err != nil {
		return errors.WithStack(err)
	}
	if existing != nil {
		return errors.Wrapf(ErrDuplicateKey, "%s %s", doc.Collection, doc.ID)
	}
	if err := checkUnique(txn, doc); err != nil {
		return err
	}

	doc.RowVersion = 1
	if err := txn.Insert(memTable, newMemRow(doc)); err != nil {
		return errors.WithStack(err)
	}
	txn.Commit()
	return nil
}

func (s *MemoryStore) UpdateIfVersion(_ context.Context, doc *Document, expected int64) (bool, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(memTable, "id", scoped(doc.Collection, doc.ID.String()))
	if err != nil {
		return false, errors.WithStack(err)
	}
	if raw == nil || raw.(*memRow).Doc.RowVersion != expected {
		return false, nil
	}
	if err := checkUnique(txn, doc); err != nil {
		return false, err
	}

	next := doc.Clone()
	next.RowVersion = expected + 1
	if err := txn.Insert(memTable, newMemRow(next)); err != nil {
		return false, errors.WithStack(err)
	}
	txn.Commit()
	doc.RowVersion = expected + 1
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, collection string, id uuid.UUID) (bool, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(memTable, "id", scoped(collection, id.String()))
	if err != nil {
		return false, errors.WithStack(err)
	}
	if raw == nil {
		return false, nil
	}
	if err := txn.Delete(memTable, raw); err != nil {
		return false, errors.WithStack(err)
	}
	txn.Commit()
	return true, nil
}

func checkUnique(txn *memdb.Txn, doc *Document) error {
	if doc.UniqueKey == "" || doc.IsDeleted() {
		return nil
	}
	clash, err := liveByUnique(txn, doc.Collection, doc.UniqueKey, doc.ID)
	if err != nil {
		return err
	}
	if clash != nil {
		return errors.Wrapf(ErrDuplicateKey, "%s unique key %q", doc.Collection, doc.UniqueKey)
	}
	return nil
}

// liveByUnique returns the non-deleted document holding key, ignoring the
// document with id except.
func liveByUnique(txn *memdb.Txn, collection, key string, except uuid.UUID) (*Document, error) {
	it, err := txn.Get(memTable, "unique", scoped(collection, key))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		d := raw.(*memRow).Doc
		if d.ID != except && !d.IsDeleted() {
			return d, nil
		}
	}
	return nil, nil
}
