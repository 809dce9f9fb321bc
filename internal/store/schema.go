package store

const schema = `
CREATE TABLE IF NOT EXISTS registry_cache (
    package TEXT PRIMARY KEY,
    current_version TEXT NOT NULL,
    latest_version TEXT NOT NULL,
    current_released TEXT,
    latest_released TEXT,
    releases_behind INTEGER NOT NULL DEFAULT 0,
    fetched_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_registry_fetched ON registry_cache(fetched_at);
`
