package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scans (
    id TEXT PRIMARY KEY,
    subject TEXT NOT NULL,
    source TEXT NOT NULL DEFAULT '',
    digest TEXT NOT NULL,
    preview TEXT NOT NULL DEFAULT '',
    words INTEGER NOT NULL DEFAULT 0,
    oracle TEXT NOT NULL DEFAULT '',
    probability REAL NOT NULL,
    status TEXT NOT NULL,
    burstiness REAL NOT NULL DEFAULT 0,
    perplexity REAL NOT NULL DEFAULT 0,
    token_count INTEGER NOT NULL DEFAULT 0,
    counts TEXT NOT NULL DEFAULT '{}',
    citation_percentage REAL NOT NULL DEFAULT 0,
    opinions TEXT NOT NULL DEFAULT '{}',
    humanity REAL NOT NULL DEFAULT 0,
    partial INTEGER NOT NULL DEFAULT 0,
    ai_source TEXT NOT NULL DEFAULT '',
    scanned_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scans_scanned_at ON scans(scanned_at);

CREATE TABLE IF NOT EXISTS segments (
    scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    text TEXT NOT NULL,
    words INTEGER NOT NULL DEFAULT 0,
    language TEXT NOT NULL,
    is_citation INTEGER NOT NULL DEFAULT 0,
    loss REAL,
    score REAL NOT NULL,
    skipped INTEGER NOT NULL DEFAULT 0,
    noise INTEGER NOT NULL DEFAULT 0,
    category TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (scan_id, idx)
);
`
