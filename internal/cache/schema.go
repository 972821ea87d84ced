package cache

const schemaSQL = `
CREATE TABLE IF NOT EXISTS results (
    cache_key            TEXT PRIMARY KEY,
    payload              BLOB NOT NULL,
    expires_at_ns        INTEGER NOT NULL DEFAULT 0,
    stored_at            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_expires ON results(expires_at_ns);
`
