package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Direction of a migration run.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Migrate applies (or rolls back) the embedded migrations for cfg.Driver and
// returns the resulting schema version. It uses its own connection so the
// application's pool is never closed by the migrator.
func Migrate(cfg Config, dir Direction) (uint, error) {
	conn, err := Open(context.Background(), cfg)
	if err != nil {
		return 0, err
	}

	dialect := strings.ToLower(cfg.Driver)
	if dialect == "" {
		dialect = DriverSQLite
	}

	var driver database.Driver
	switch dialect {
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	case DriverPostgres:
		driver, err = migratepgx.WithInstance(conn, &migratepgx.Config{})
	}
	if err != nil {
		_ = conn.Close()
		return 0, fmt.Errorf("init %s migration driver: %w", dialect, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+dialect)
	if err != nil {
		_ = conn.Close()
		return 0, fmt.Errorf("load %s migrations: %w", dialect, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		_ = conn.Close()
		return 0, fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		// closes both the source and the dedicated connection
		_, _ = m.Close()
	}()

	switch dir {
	case Down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate %s: %w", dir, err)
	}

	version, _, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, nil
		}
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
