// Package store caches summaries of seeded simulation runs.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/futurebank/fbsim/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed summary caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveSummary stores a run summary, replacing any previous entry for the key.
func (c *Cache) SaveSummary(info model.RunInfo, s model.Summary) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now()
	}
	withCar := 0
	if info.WithCar {
		withCar = 1
	}

	// Replacing the parent row cascades to bands and finals.
	_, err = tx.Exec("DELETE FROM runs WHERE run_key = ?", info.Key)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT INTO runs
		(run_key, label, created_at, sims, years, seed, with_car, final_median, final_mean, prob_loss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.Key, info.Label, info.CreatedAt.UTC().Format(time.RFC3339), info.Sims, info.Years,
		int64(info.Seed), withCar, s.FinalMedian, s.FinalMean, s.ProbLoss, //nolint:gosec // seed round-trips through int64
	)
	if err != nil {
		return err
	}

	bandStmt, err := tx.Prepare("INSERT INTO run_bands (run_key, month, p10, p50, p90) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer func() { _ = bandStmt.Close() }()
	for m := range s.P50 {
		if _, err := bandStmt.Exec(info.Key, m, s.P10[m], s.P50[m], s.P90[m]); err != nil {
			return err
		}
	}

	finalStmt, err := tx.Prepare("INSERT INTO run_finals (run_key, idx, value) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer func() { _ = finalStmt.Close() }()
	for i, v := range s.FinalValues {
		if _, err := finalStmt.Exec(info.Key, i, v); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSummary returns the cached summary for key. ok is false on a miss.
func (c *Cache) LoadSummary(key string) (s model.Summary, ok bool, err error) {
	err = c.db.QueryRow("SELECT final_median, final_mean, prob_loss FROM runs WHERE run_key = ?", key).
		Scan(&s.FinalMedian, &s.FinalMean, &s.ProbLoss)
	if err == sql.ErrNoRows {
		return model.Summary{}, false, nil
	}
	if err != nil {
		return model.Summary{}, false, err
	}

	rows, err := c.db.Query("SELECT p10, p50, p90 FROM run_bands WHERE run_key = ? ORDER BY month", key)
	if err != nil {
		return model.Summary{}, false, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var p10, p50, p90 float64
		if err := rows.Scan(&p10, &p50, &p90); err != nil {
			return model.Summary{}, false, err
		}
		s.P10 = append(s.P10, p10)
		s.P50 = append(s.P50, p50)
		s.P90 = append(s.P90, p90)
	}
	if err := rows.Err(); err != nil {
		return model.Summary{}, false, err
	}

	finals, err := c.db.Query("SELECT value FROM run_finals WHERE run_key = ? ORDER BY idx", key)
	if err != nil {
		return model.Summary{}, false, err
	}
	defer func() { _ = finals.Close() }()
	for finals.Next() {
		var v float64
		if err := finals.Scan(&v); err != nil {
			return model.Summary{}, false, err
		}
		s.FinalValues = append(s.FinalValues, v)
	}

	return s, true, finals.Err()
}

// ListRuns returns the most recent cached runs, newest first.
// A limit of zero or less returns every run.
func (c *Cache) ListRuns(limit int) ([]model.RunInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.db.Query(`SELECT
		run_key, label, created_at, sims, years, seed, with_car, final_median, final_mean, prob_loss
		FROM runs ORDER BY created_at DESC, run_key LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []model.RunInfo
	for rows.Next() {
		var r model.RunInfo
		var created string
		var seed int64
		var withCar int
		err := rows.Scan(&r.Key, &r.Label, &created, &r.Sims, &r.Years, &seed, &withCar,
			&r.FinalMedian, &r.FinalMean, &r.ProbLoss)
		if err != nil {
			return nil, err
		}
		r.Seed = uint64(seed) //nolint:gosec // stored as the int64 bit pattern
		r.WithCar = withCar != 0
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and its bands and final values.
func (c *Cache) DeleteRun(key string) error {
	_, err := c.db.Exec("DELETE FROM runs WHERE run_key = ?", key)
	return err
}

// RunCount returns the number of cached runs.
func (c *Cache) RunCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}
