package npm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/WillZhangFly/package-outdated-why/internal/libyear"
	"github.com/WillZhangFly/package-outdated-why/internal/store"
)

const defaultRegistryURL = "https://registry.npmjs.org"

// defaultCacheTTL is how long a cached registry lookup stays valid.
// Publish dates never change once recorded, but the latest version and
// release count drift, so entries expire daily.
const defaultCacheTTL = 24 * time.Hour

// RegistryClient resolves per-package publish dates and release counts
// from the npm registry, memoizing results in an optional SQLite cache
// keyed by package name.
type RegistryClient struct {
	RegistryURL string
	HTTPClient  *http.Client
	Cache       *store.Store
	TTL         time.Duration
}

// NewRegistryClient creates a client with default registry URL, timeout
// and TTL. cache may be nil to disable memoization.
func NewRegistryClient(cache *store.Store) *RegistryClient {
	return &RegistryClient{
		RegistryURL: defaultRegistryURL,
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
		Cache:       cache,
		TTL:         defaultCacheTTL,
	}
}

// packument is the slice of a registry document we care about: the
// per-version publish times and the dist-tags.
type packument struct {
	DistTags map[string]string `json:"dist-tags"`
	Time     map[string]string `json:"time"`
}

// PackageAge resolves publication facts for one package. Lookup order:
// cache (when fresh and for the same version pair), then the registry.
// A failed fetch returns an age with unknown dates alongside the error,
// so callers can degrade instead of aborting.
func (c *RegistryClient) PackageAge(name, currentVersion, latestVersion string) (libyear.PackageAge, error) {
	age := libyear.PackageAge{
		Name:           name,
		CurrentVersion: currentVersion,
		LatestVersion:  latestVersion,
	}

	if c.Cache != nil {
		entry, err := c.Cache.GetRegistryEntry(name)
		if err == nil && entry != nil &&
			entry.CurrentVersion == currentVersion &&
			entry.LatestVersion == latestVersion &&
			time.Since(entry.FetchedAt) < c.ttl() {
			age.CurrentReleased = entry.CurrentReleased
			age.LatestReleased = entry.LatestReleased
			age.ReleasesBehind = entry.ReleasesBehind
			return age, nil
		}
	}

	doc, err := c.fetchPackument(name)
	if err != nil {
		return age, err
	}

	if latestVersion == "" {
		latestVersion = doc.DistTags["latest"]
		age.LatestVersion = latestVersion
	}

	age.CurrentReleased = publishTime(doc, currentVersion)
	age.LatestReleased = publishTime(doc, latestVersion)
	age.ReleasesBehind = releasesBetween(doc, age.CurrentReleased, age.LatestReleased)

	if c.Cache != nil {
		entry := &store.RegistryEntry{
			Package:         name,
			CurrentVersion:  currentVersion,
			LatestVersion:   latestVersion,
			CurrentReleased: age.CurrentReleased,
			LatestReleased:  age.LatestReleased,
			ReleasesBehind:  age.ReleasesBehind,
			FetchedAt:       time.Now(),
		}
		if err := c.Cache.PutRegistryEntry(entry); err != nil {
			return age, fmt.Errorf("failed to cache %s: %w", name, err)
		}
	}

	return age, nil
}

func (c *RegistryClient) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return defaultCacheTTL
}

func (c *RegistryClient) fetchPackument(name string) (*packument, error) {
	registry := c.RegistryURL
	if registry == "" {
		registry = defaultRegistryURL
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	// Scoped names contain a slash that must survive as one path segment.
	resp, err := client.Get(fmt.Sprintf("%s/%s", registry, url.PathEscape(name)))
	if err != nil {
		return nil, fmt.Errorf("registry request for %s failed: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned %d for %s", resp.StatusCode, name)
	}

	var doc packument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry response for %s: %w", name, err)
	}
	return &doc, nil
}

// publishTime returns the publish date of a version, or nil when the
// registry has no record of it.
func publishTime(doc *packument, version string) *time.Time {
	raw, ok := doc.Time[version]
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// releasesBetween counts versions published after current and up to
// latest. The "created" and "modified" entries of the time map are
// bookkeeping, not releases.
func releasesBetween(doc *packument, current, latest *time.Time) int {
	if current == nil || latest == nil {
		return 0
	}

	count := 0
	for version, raw := range doc.Time {
		if version == "created" || version == "modified" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}
		if t.After(*current) && !t.After(*latest) {
			count++
		}
	}
	return count
}
