package store

import (
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	if err := s.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRegistryEntryRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	current := time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	latest := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)

	entry := &RegistryEntry{
		Package:         "react",
		CurrentVersion:  "17.0.2",
		LatestVersion:   "18.2.0",
		CurrentReleased: &current,
		LatestReleased:  &latest,
		ReleasesBehind:  23,
		FetchedAt:       time.Now(),
	}

	if err := s.PutRegistryEntry(entry); err != nil {
		t.Fatalf("PutRegistryEntry failed: %v", err)
	}

	got, err := s.GetRegistryEntry("react")
	if err != nil {
		t.Fatalf("GetRegistryEntry failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a cache hit")
	}

	if got.CurrentVersion != "17.0.2" || got.LatestVersion != "18.2.0" {
		t.Errorf("versions = %s / %s", got.CurrentVersion, got.LatestVersion)
	}
	if got.ReleasesBehind != 23 {
		t.Errorf("releases behind = %d, want 23", got.ReleasesBehind)
	}
	if got.CurrentReleased == nil || !got.CurrentReleased.Equal(current) {
		t.Errorf("current released = %v, want %v", got.CurrentReleased, current)
	}
	if got.LatestReleased == nil || !got.LatestReleased.Equal(latest) {
		t.Errorf("latest released = %v, want %v", got.LatestReleased, latest)
	}
}

func TestRegistryEntry_NilDatesSurviveRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	entry := &RegistryEntry{
		Package:        "mystery",
		CurrentVersion: "1.0.0",
		LatestVersion:  "2.0.0",
		FetchedAt:      time.Now(),
	}
	if err := s.PutRegistryEntry(entry); err != nil {
		t.Fatalf("PutRegistryEntry failed: %v", err)
	}

	got, err := s.GetRegistryEntry("mystery")
	if err != nil {
		t.Fatalf("GetRegistryEntry failed: %v", err)
	}
	if got.CurrentReleased != nil || got.LatestReleased != nil {
		t.Errorf("expected nil release dates, got %v / %v", got.CurrentReleased, got.LatestReleased)
	}
}

func TestGetRegistryEntry_MissIsNotAnError(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.GetRegistryEntry("nope")
	if err != nil {
		t.Fatalf("GetRegistryEntry failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil on cache miss, got %+v", got)
	}
}

func TestPutRegistryEntry_Replaces(t *testing.T) {
	s := setupTestStore(t)

	first := &RegistryEntry{Package: "axios", CurrentVersion: "1.0.0", LatestVersion: "1.4.0", FetchedAt: time.Now()}
	if err := s.PutRegistryEntry(first); err != nil {
		t.Fatalf("first put failed: %v", err)
	}

	second := &RegistryEntry{Package: "axios", CurrentVersion: "1.4.0", LatestVersion: "1.6.0", ReleasesBehind: 4, FetchedAt: time.Now()}
	if err := s.PutRegistryEntry(second); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	got, err := s.GetRegistryEntry("axios")
	if err != nil {
		t.Fatalf("GetRegistryEntry failed: %v", err)
	}
	if got.LatestVersion != "1.6.0" || got.ReleasesBehind != 4 {
		t.Errorf("expected replaced entry, got %+v", got)
	}
}

func TestClearAndStats(t *testing.T) {
	s := setupTestStore(t)

	count, oldest, err := s.RegistryCacheStats()
	if err != nil {
		t.Fatalf("RegistryCacheStats failed: %v", err)
	}
	if count != 0 || !oldest.IsZero() {
		t.Errorf("expected empty stats, got count=%d oldest=%v", count, oldest)
	}

	old := time.Now().Add(-2 * time.Hour)
	entries := []*RegistryEntry{
		{Package: "a", CurrentVersion: "1.0.0", LatestVersion: "2.0.0", FetchedAt: old},
		{Package: "b", CurrentVersion: "1.0.0", LatestVersion: "2.0.0", FetchedAt: time.Now()},
	}
	for _, e := range entries {
		if err := s.PutRegistryEntry(e); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	count, oldest, err = s.RegistryCacheStats()
	if err != nil {
		t.Fatalf("RegistryCacheStats failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if oldest.IsZero() || oldest.After(time.Now().Add(-time.Hour)) {
		t.Errorf("oldest = %v, want around two hours ago", oldest)
	}

	if err := s.ClearRegistryCache(); err != nil {
		t.Fatalf("ClearRegistryCache failed: %v", err)
	}
	count, _, err = s.RegistryCacheStats()
	if err != nil {
		t.Fatalf("RegistryCacheStats failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count after clear = %d, want 0", count)
	}
}
