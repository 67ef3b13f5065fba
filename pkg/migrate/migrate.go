package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"sync"

	"github.com/angelmondragon/bistro-backend/pkg/db"
	"github.com/pressly/goose/v3"
)

// DefaultDir is where new migrations are authored on disk.
const DefaultDir = "pkg/migrate/migrations"

const embeddedDir = "migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// gooseMu guards goose's package-level dialect and filesystem settings.
var gooseMu sync.Mutex

// Migrations exposes the SQL files compiled into the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, embeddedDir)
	if err != nil {
		panic(err)
	}
	return sub
}

func gooseDialect(dialect string) (goose.Dialect, error) {
	switch dialect {
	case db.DialectPostgres, "":
		return goose.DialectPostgres, nil
	case db.DialectSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func configure(dialect string) error {
	d, err := gooseDialect(dialect)
	if err != nil {
		return err
	}
	if err := goose.SetDialect(string(d)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(embedded)
	goose.SetLogger(goose.NopLogger())
	return nil
}

// Run executes a goose command against the embedded migrations.
func Run(ctx context.Context, sqlDB *sql.DB, dialect string, command string, args ...string) error {
	if sqlDB == nil {
		return fmt.Errorf("db is required")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configure(dialect); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, sqlDB, embeddedDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Up applies every pending migration on the client's connection.
func Up(ctx context.Context, client *db.Client) error {
	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	return Run(ctx, sqlDB, client.Dialect(), "up")
}

// MigrateToVersion migrates up or down to the requested version.
func MigrateToVersion(ctx context.Context, sqlDB *sql.DB, dialect string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configure(dialect); err != nil {
		return err
	}

	current, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, sqlDB, embeddedDir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
	default:
		if err := goose.DownToContext(ctx, sqlDB, embeddedDir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}
