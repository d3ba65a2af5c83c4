package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

// PostgresStore keeps every collection in the single documents table
// created by the embedded migrations.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) baseSelect() string {
	return `
        SELECT
            collection,
            id,
            owner_id,
            refs,
            unique_key,
            data,
            created_at,
            updated_at,
            deleted_at,
            row_version
        FROM documents
    `
}

func (s *PostgresStore) scanDocument(row pgx.Row) (*Document, error) {
	var (
		d         Document
		unique    *string
		data      []byte
		deletedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&d.Collection,
		&d.ID,
		&d.OwnerID,
		&d.Refs,
		&unique,
		&data,
		&d.CreatedAt,
		&d.UpdatedAt,
		&deletedAt,
		&d.RowVersion,
	); err != nil {
		return nil, err
	}
	if unique != nil {
		d.UniqueKey = *unique
	}
	d.Data = data
	if deletedAt.Status == pgtype.Present {
		t := deletedAt.Time
		d.DeletedAt = &t
	}
	return &d, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection string, id uuid.UUID) (*Document, error) {
	row := s.db.QueryRow(ctx, s.baseSelect()+" WHERE collection=$1 AND id=$2", collection, id)
	d, err := s.scanDocument(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return d, errors.WithStack(err)
}

func (s *PostgresStore) GetByUniqueKey(ctx context.Context, collection, key string) (*Document, error) {
	row := s.db.QueryRow(ctx,
		s.baseSelect()+" WHERE collection=$1 AND unique_key=$2 AND deleted_at IS NULL",
		collection, key,
	)
	d, err := s.scanDocument(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return d, errors.WithStack(err)
}

func (s *PostgresStore) List(ctx context.Context, collection string, f Filter) ([]*Document, error) {
	query := s.baseSelect() + " WHERE collection=$1"
	args := []any{collection}

	if f.OwnerID != nil {
		args = append(args, *f.OwnerID)
		query += fmt.Sprintf(" AND owner_id=$%d", len(args))
	}
	if f.Ref != "" {
		args = append(args, f.Ref)
		query += fmt.Sprintf(" AND $%d = ANY(refs)", len(args))
	}
	if !f.IncludeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var out []*Document
	for rows.Next() {
		d, err := s.scanDocument(rows)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		out = append(out, d)
	}
	return out, errors.WithStack(rows.Err())
}

func (s *PostgresStore) Insert(ctx context.Context, doc *Document) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO documents (
            collection, id, owner_id, refs, unique_key, data,
            created_at, updated_at, deleted_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,1)
    `,
		doc.Collection,
		doc.ID,
		doc.OwnerID,
		refsOrEmpty(doc.Refs),
		nullableKey(doc.UniqueKey),
		string(doc.Data),
		doc.CreatedAt,
		doc.UpdatedAt,
		doc.DeletedAt,
	)
	if err != nil {
		return translate(err, doc)
	}
	doc.RowVersion = 1
	return nil
}

func (s *PostgresStore) UpdateIfVersion(ctx context.Context, doc *Document, expected int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE documents SET
            owner_id=$3,
            refs=$4,
            unique_key=$5,
            data=$6,
            updated_at=$7,
            deleted_at=$8,
            row_version=row_version+1
        WHERE collection=$1 AND id=$2 AND row_version=$9
    `,
		doc.Collection,
		doc.ID,
		doc.OwnerID,
		refsOrEmpty(doc.Refs),
		nullableKey(doc.UniqueKey),
		string(doc.Data),
		doc.UpdatedAt,
		doc.DeletedAt,
		expected,
	)
	if err != nil {
		return false, translate(err, doc)
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}
	doc.RowVersion = expected + 1
	return true, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection string, id uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM documents WHERE collection=$1 AND id=$2`, collection, id)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return tag.RowsAffected() == 1, nil
}

func translate(err error, doc *Document) error {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Wrapf(ErrDuplicateKey, "%s %s (%s)", doc.Collection, doc.ID, pgErr.ConstraintName)
	}
	return errors.WithStack(err)
}

func nullableKey(k string) *string {
	if k == "" {
		return nil
	}
	return &k
}

func refsOrEmpty(refs []string) []string {
	if refs == nil {
		return []string{}
	}
	return refs
}
