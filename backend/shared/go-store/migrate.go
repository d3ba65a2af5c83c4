package store

import (
	"embed"
	stderrors "errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies the embedded schema migrations to the database at dsn.
// Being already at the latest version is not an error.
func Migrate(dsn string) error {
	if dsn == "" {
		return errors.New("database url is not set")
	}

	sourceDriver, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "migrate source")
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dsn)
	if err != nil {
		return errors.Wrap(err, "migrate")
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate up")
	}
	return nil
}
