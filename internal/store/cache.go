package store

import (
	"database/sql"
	"fmt"
	"time"
)

// RegistryEntry is one cached registry lookup, keyed by package name.
// Release timestamps may be nil when the registry did not report them.
type RegistryEntry struct {
	Package         string
	CurrentVersion  string
	LatestVersion   string
	CurrentReleased *time.Time
	LatestReleased  *time.Time
	ReleasesBehind  int
	FetchedAt       time.Time
}

// PutRegistryEntry inserts or replaces a cached registry lookup.
func (s *Store) PutRegistryEntry(entry *RegistryEntry) error {
	query := `
		INSERT OR REPLACE INTO registry_cache
		(package, current_version, latest_version, current_released, latest_released, releases_behind, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		entry.Package,
		entry.CurrentVersion,
		entry.LatestVersion,
		formatNullableTime(entry.CurrentReleased),
		formatNullableTime(entry.LatestReleased),
		entry.ReleasesBehind,
		entry.FetchedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to cache registry entry for %s: %w", entry.Package, err)
	}
	return nil
}

// GetRegistryEntry retrieves the cached lookup for a package.
// Returns (nil, nil) on a cache miss.
func (s *Store) GetRegistryEntry(pkg string) (*RegistryEntry, error) {
	query := `
		SELECT package, current_version, latest_version, current_released, latest_released, releases_behind, fetched_at
		FROM registry_cache
		WHERE package = ?
	`

	var entry RegistryEntry
	var currentReleased, latestReleased sql.NullString
	var fetchedAt string

	err := s.db.QueryRow(query, pkg).Scan(
		&entry.Package,
		&entry.CurrentVersion,
		&entry.LatestVersion,
		&currentReleased,
		&latestReleased,
		&entry.ReleasesBehind,
		&fetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry cache for %s: %w", pkg, err)
	}

	entry.CurrentReleased = parseNullableTime(currentReleased)
	entry.LatestReleased = parseNullableTime(latestReleased)

	entry.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fetched_at for %s: %w", pkg, err)
	}

	return &entry, nil
}

// ClearRegistryCache deletes all cached registry lookups.
func (s *Store) ClearRegistryCache() error {
	if _, err := s.db.Exec(`DELETE FROM registry_cache`); err != nil {
		return fmt.Errorf("failed to clear registry cache: %w", err)
	}
	return nil
}

// RegistryCacheStats returns the number of cached entries and the
// oldest fetch time. The time is zero when the cache is empty.
func (s *Store) RegistryCacheStats() (int, time.Time, error) {
	var count int
	var oldest sql.NullString

	err := s.db.QueryRow(`SELECT COUNT(*), MIN(fetched_at) FROM registry_cache`).Scan(&count, &oldest)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to read registry cache stats: %w", err)
	}

	if !oldest.Valid {
		return count, time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, oldest.String)
	if err != nil {
		return count, time.Time{}, fmt.Errorf("failed to parse oldest fetch time: %w", err)
	}
	return count, t, nil
}

func formatNullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}
