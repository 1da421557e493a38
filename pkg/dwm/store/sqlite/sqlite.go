// Package sqlite implements store.VariantStore and store.RunStatsStore
// on top of modernc.org/sqlite, a pure-Go driver, so a long-lived
// deployment can keep a queryable history of learned variants and
// iteration statistics across many runs without a cgo dependency.
package sqlite

import (
	"context"
	"database/sql"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/oysterer/dwm/pkg/dwm/store"
)

// Store implements both store.VariantStore and store.RunStatsStore
// against a single sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a sqlite database at path and
// initializes its schema, with WAL mode enabled for concurrent readers.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS variants (
	standard TEXT NOT NULL,
	variant  TEXT NOT NULL,
	PRIMARY KEY(standard, variant)
);

CREATE TABLE IF NOT EXISTS iteration_stats (
	run_id          TEXT NOT NULL,
	iteration       INTEGER NOT NULL,
	mu              REAL NOT NULL,
	epsilon         REAL NOT NULL,
	candidate_pairs INTEGER NOT NULL,
	linked_pairs    INTEGER NOT NULL,
	clusters        INTEGER NOT NULL,
	precision       REAL NOT NULL,
	recall          REAL NOT NULL,
	f_measure       REAL NOT NULL,
	PRIMARY KEY(run_id, iteration)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// LoadVariants implements store.VariantStore.
func (s *Store) LoadVariants(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT standard, variant FROM variants ORDER BY standard, variant`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var std, variant string
		if err := rows.Scan(&std, &variant); err != nil {
			return nil, err
		}
		out[std] = append(out[std], variant)
	}
	return out, rows.Err()
}

// SaveVariants implements store.VariantStore, replacing the whole
// table in one transaction so a concurrent reader never sees a
// half-written variant set.
func (s *Store) SaveVariants(ctx context.Context, variants map[string][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM variants`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO variants (standard, variant) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	standards := make([]string, 0, len(variants))
	for std := range variants {
		standards = append(standards, std)
	}
	sort.Strings(standards)

	for _, std := range standards {
		for _, variant := range variants[std] {
			if _, err := stmt.ExecContext(ctx, std, variant); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// RecordIteration implements store.RunStatsStore.
func (s *Store) RecordIteration(ctx context.Context, stat store.IterationStat) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO iteration_stats
	(run_id, iteration, mu, epsilon, candidate_pairs, linked_pairs, clusters, precision, recall, f_measure)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id, iteration) DO UPDATE SET
	mu=excluded.mu, epsilon=excluded.epsilon,
	candidate_pairs=excluded.candidate_pairs, linked_pairs=excluded.linked_pairs,
	clusters=excluded.clusters, precision=excluded.precision,
	recall=excluded.recall, f_measure=excluded.f_measure;
`,
		stat.RunID, stat.Iteration, stat.Mu, stat.Epsilon,
		stat.CandidatePairs, stat.LinkedPairs, stat.Clusters,
		stat.Precision, stat.Recall, stat.FMeasure,
	)
	return err
}

// IterationsForRun implements store.RunStatsStore.
func (s *Store) IterationsForRun(ctx context.Context, runID string) ([]store.IterationStat, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, iteration, mu, epsilon, candidate_pairs, linked_pairs, clusters, precision, recall, f_measure
FROM iteration_stats
WHERE run_id = ?
ORDER BY iteration;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.IterationStat
	for rows.Next() {
		var st store.IterationStat
		if err := rows.Scan(
			&st.RunID, &st.Iteration, &st.Mu, &st.Epsilon,
			&st.CandidatePairs, &st.LinkedPairs, &st.Clusters,
			&st.Precision, &st.Recall, &st.FMeasure,
		); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
