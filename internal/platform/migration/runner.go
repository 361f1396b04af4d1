// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package migration applies the SQL files under data/migrations at startup.

It runs golang-migrate through its pgx/v5 driver. A database left dirty by a
failed migration stops startup instead of being forced, since only an
operator can tell which half of the file was applied.
*/
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Registers the "file" source scheme.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirty is returned when a previous run stopped halfway through a file.
var ErrDirty = errors.New("migration: database is dirty")

/*
RunUp applies every pending up migration found in dir.

Returns:
  - nil when the schema is current, including when nothing was pending
  - ErrDirty (wrapped) when the recorded version is marked dirty
*/
func RunUp(dsn, dir string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+dir, driverURL(dsn))
	if err != nil {
		return fmt.Errorf("migration_init_failed: %w", err)
	}
	defer closeMigrator(migrator, logger)

	migrator.Log = slogAdapter{logger: logger}

	from, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0
	case err != nil:
		return fmt.Errorf("migration_version_failed: %w", err)
	case dirty:
		return fmt.Errorf("%w at version %d", ErrDirty, from)
	}

	err = migrator.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration_up_failed: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)

	return nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil {
		logger.Warn("migration_close_failed", slog.Any("error", err))
	}
}

// driverURL rewrites postgres:// and postgresql:// URLs to the pgx5 scheme.
// Keyword DSNs pass through untouched.
func driverURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogAdapter satisfies migrate.Logger. Progress lines are Debug.
type slogAdapter struct {
	logger *slog.Logger
}

func (adapter slogAdapter) Printf(format string, args ...any) {
	adapter.logger.Debug("migration_progress",
		slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))),
	)
}

func (adapter slogAdapter) Verbose() bool {
	return adapter.logger.Enabled(context.Background(), slog.LevelDebug)
}
