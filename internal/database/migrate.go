package database

import (
	"embed"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"bookden/internal/middleware"
)

// Migration is one versioned schema change. Files are paired on disk as
// NNNNNN_name.up.sql / NNNNNN_name.down.sql; a migration without a down
// script does not register.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrations []Migration

func init() {
	if err := RegisterMigrations(migrationFS); err != nil {
		fmt.Printf("register embedded migrations: %v\n", err)
	}
}

// RegisterMigrations loads every up/down pair from the embedded
// filesystem into the global registry, ordered by version.
func RegisterMigrations(efs embed.FS) error {
	entries, err := efs.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(entry.Name(), ".up.sql")
		versionPart, name, ok := strings.Cut(base, "_")
		if !ok {
			middleware.Logger.Warn("ignoring migration file without NNNNNN_name form", slog.String("file", entry.Name()))
			continue
		}
		version, err := strconv.Atoi(versionPart)
		if err != nil {
			middleware.Logger.Warn("ignoring migration file with non-numeric version", slog.String("file", entry.Name()))
			continue
		}

		up, err := efs.ReadFile(filepath.Join("migrations", base+".up.sql"))
		if err != nil {
			return fmt.Errorf("read %s.up.sql: %w", base, err)
		}
		down, err := efs.ReadFile(filepath.Join("migrations", base+".down.sql"))
		if err != nil {
			return fmt.Errorf("read %s.down.sql: %w", base, err)
		}

		migrations = append(migrations, Migration{
			Version:    version,
			Name:       name,
			UpScript:   string(up),
			DownScript: string(down),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return nil
}

// GetMigrations returns the registry in version order.
func GetMigrations() []Migration {
	return migrations
}

func GetMigrationByVersion(version int) *Migration {
	for _, m := range migrations {
		if m.Version == version {
			return &m
		}
	}
	return nil
}

func (m *Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}
