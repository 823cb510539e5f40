package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
	"github.com/cognicore/qacurate/pkg/qacurate/internalerr"
	"github.com/cognicore/qacurate/pkg/qacurate/report"
	"github.com/cognicore/qacurate/pkg/qacurate/store"
	"github.com/cognicore/qacurate/pkg/qacurate/validate"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	ids *store.IDSource
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	// One connection serializes writers and keeps per-connection pragmas
	// in effect.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, ids: store.NewIDSource()}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	source TEXT,
	report_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entities (
	run_id TEXT NOT NULL,
	category TEXT NOT NULL,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY(run_id, category, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS records (
	run_id TEXT NOT NULL,
	category TEXT NOT NULL,
	entity_position INTEGER NOT NULL,
	position INTEGER NOT NULL,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	predicted TEXT,
	PRIMARY KEY(run_id, category, entity_position, position),
	FOREIGN KEY(run_id, category, entity_position)
		REFERENCES entities(run_id, category, position) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS removals (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	category TEXT NOT NULL,
	entity TEXT NOT NULL,
	reason TEXT NOT NULL,
	detail TEXT,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun writes the run, its entities, records and removals in one
// transaction. Saving an existing ID replaces the run.
func (s *sqliteStore) SaveRun(ctx context.Context, run store.Run) (string, error) {
	if run.ID == "" {
		run.ID = s.ids.Next()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	rep := run.Report
	rep.RunID = run.ID
	reportJSON, err := json.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	for _, table := range []string{"records", "removals", "entities"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, run.ID); err != nil {
			return "", err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, report_json) VALUES (?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano), run.Source, string(reportJSON),
	); err != nil {
		return "", err
	}

	if err := insertSubset(ctx, tx, run.ID, run.Subset); err != nil {
		return "", err
	}
	if err := insertRemovals(ctx, tx, run.ID, run.Report.Removals); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

func insertSubset(ctx context.Context, tx *sql.Tx, runID string, subset dataset.Subset) error {
	entStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entities (run_id, category, position, name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer entStmt.Close()

	recStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, category, entity_position, position, question, answer, predicted)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer recStmt.Close()

	for _, cat := range subset.Categories() {
		for i, e := range subset[cat] {
			if _, err := entStmt.ExecContext(ctx, runID, cat, i, e.Name); err != nil {
				return fmt.Errorf("insert entity %q: %w", e.Name, err)
			}
			for j, rec := range e.Records {
				if _, err := recStmt.ExecContext(ctx, runID, cat, i, j, rec.Question, rec.Answer, rec.Predicted); err != nil {
					return fmt.Errorf("insert record for %q: %w", e.Name, err)
				}
			}
		}
	}
	return nil
}

func insertRemovals(ctx context.Context, tx *sql.Tx, runID string, removals []validate.Removal) error {
	for i, r := range removals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO removals (run_id, position, category, entity, reason, detail) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, r.Category, r.Entity, r.Reason, r.Detail,
		); err != nil {
			return err
		}
	}
	return nil
}

// GetRun loads a run with its subset and removals.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	var (
		run        store.Run
		createdAt  string
		source     sql.NullString
		reportJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source, report_json FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &createdAt, &source, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %q: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	run.Source = source.String
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return store.Run{}, fmt.Errorf("run %q: parse created_at: %w", id, err)
	}
	var rep report.Report
	if err := json.Unmarshal([]byte(reportJSON), &rep); err != nil {
		return store.Run{}, fmt.Errorf("run %q: decode report: %w", id, err)
	}
	run.Report = rep

	if run.Subset, err = s.loadSubset(ctx, id); err != nil {
		return store.Run{}, err
	}
	if run.Report.Removals, err = s.loadRemovals(ctx, id); err != nil {
		return store.Run{}, err
	}
	return run, nil
}

func (s *sqliteStore) loadSubset(ctx context.Context, runID string) (dataset.Subset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, name FROM entities WHERE run_id = ? ORDER BY category, position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subset := make(dataset.Subset)
	for rows.Next() {
		var cat, name string
		if err := rows.Scan(&cat, &name); err != nil {
			return nil, err
		}
		subset[cat] = append(subset[cat], dataset.Entity{Name: name, Category: cat})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recRows, err := s.db.QueryContext(ctx,
		`SELECT category, entity_position, question, answer, predicted FROM records
		 WHERE run_id = ? ORDER BY category, entity_position, position`, runID)
	if err != nil {
		return nil, err
	}
	defer recRows.Close()

	for recRows.Next() {
		var (
			cat       string
			pos       int
			rec       dataset.Record
			predicted sql.NullString
		)
		if err := recRows.Scan(&cat, &pos, &rec.Question, &rec.Answer, &predicted); err != nil {
			return nil, err
		}
		rec.Predicted = predicted.String
		ents := subset[cat]
		if pos < 0 || pos >= len(ents) {
			return nil, fmt.Errorf("run %q: record for missing entity %s/%d", runID, cat, pos)
		}
		ents[pos].Records = append(ents[pos].Records, rec)
	}
	return subset, recRows.Err()
}

func (s *sqliteStore) loadRemovals(ctx context.Context, runID string) ([]validate.Removal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, entity, reason, detail FROM removals WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []validate.Removal{}
	for rows.Next() {
		var (
			r      validate.Removal
			detail sql.NullString
		)
		if err := rows.Scan(&r.Category, &r.Entity, &r.Reason, &detail); err != nil {
			return nil, err
		}
		r.Detail = detail.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListRuns returns run summaries, newest first.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	query := `
SELECT r.id, r.created_at, r.source,
	(SELECT COUNT(*) FROM entities e WHERE e.run_id = r.id),
	(SELECT COUNT(*) FROM records c WHERE c.run_id = r.id)
FROM runs r
ORDER BY r.id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.RunSummary
	for rows.Next() {
		var (
			sum       store.RunSummary
			createdAt string
			source    sql.NullString
		)
		if err := rows.Scan(&sum.ID, &createdAt, &source, &sum.Entities, &sum.Records); err != nil {
			return nil, err
		}
		sum.Source = source.String
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("run %q: parse created_at: %w", sum.ID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
