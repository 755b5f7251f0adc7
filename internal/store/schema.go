package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_key              TEXT PRIMARY KEY,
    label                TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    sims                 INTEGER NOT NULL,
    years                INTEGER NOT NULL,
    seed                 INTEGER NOT NULL,
    with_car             INTEGER NOT NULL DEFAULT 0,
    final_median         REAL,
    final_mean           REAL,
    prob_loss            REAL
);

CREATE TABLE IF NOT EXISTS run_bands (
    run_key              TEXT NOT NULL REFERENCES runs(run_key) ON DELETE CASCADE,
    month                INTEGER NOT NULL,
    p10                  REAL,
    p50                  REAL,
    p90                  REAL,
    PRIMARY KEY (run_key, month)
);

CREATE TABLE IF NOT EXISTS run_finals (
    run_key              TEXT NOT NULL REFERENCES runs(run_key) ON DELETE CASCADE,
    idx                  INTEGER NOT NULL,
    value                REAL,
    PRIMARY KEY (run_key, idx)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
