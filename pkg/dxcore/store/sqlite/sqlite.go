package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

// timeLayout is fixed-width so the TEXT column sorts chronologically.
// RFC3339Nano trims trailing zeros and would break ORDER BY.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements store.Store on a single SQLite file.
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and the schema
// in place.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite permits one writer at a time; a single pooled connection
	// keeps concurrent writers from tripping SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// WAL lets readers proceed while an assessment is being written.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	// Candidate and comorbidity rows cascade with their assessment.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS assessments (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	input TEXT,
	checklist TEXT,
	disease TEXT,
	display TEXT,
	confidence REAL NOT NULL DEFAULT 0,
	source TEXT,
	severity_score INTEGER NOT NULL DEFAULT 0,
	severity_level TEXT,
	emergency INTEGER NOT NULL DEFAULT 0,
	guidance TEXT,
	volume INTEGER NOT NULL DEFAULT 0,
	factors TEXT
);

CREATE INDEX IF NOT EXISTS idx_assessments_created ON assessments(created_at);
CREATE INDEX IF NOT EXISTS idx_assessments_disease ON assessments(disease);

CREATE TABLE IF NOT EXISTS assessment_candidates (
	assessment_id TEXT NOT NULL,
	rank INTEGER NOT NULL,
	disease TEXT NOT NULL,
	confidence REAL NOT NULL,
	UNIQUE(assessment_id, rank),
	FOREIGN KEY(assessment_id) REFERENCES assessments(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS assessment_comorbid (
	assessment_id TEXT NOT NULL,
	disease TEXT NOT NULL,
	UNIQUE(assessment_id, disease),
	FOREIGN KEY(assessment_id) REFERENCES assessments(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertAssessment inserts or replaces one assessment with its
// candidate and comorbidity rows.
func (s *sqliteStore) UpsertAssessment(ctx context.Context, a store.Assessment) error {
	checklistJSON, err := json.Marshal(a.Checklist)
	if err != nil {
		return err
	}
	factorsJSON, err := json.Marshal(a.Factors)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO assessments (
	id, created_at, input, checklist, disease, display, confidence,
	source, severity_score, severity_level, emergency, guidance,
	volume, factors
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	input=excluded.input,
	checklist=excluded.checklist,
	disease=excluded.disease,
	display=excluded.display,
	confidence=excluded.confidence,
	source=excluded.source,
	severity_score=excluded.severity_score,
	severity_level=excluded.severity_level,
	emergency=excluded.emergency,
	guidance=excluded.guidance,
	volume=excluded.volume,
	factors=excluded.factors;
`

	if _, err := tx.ExecContext(
		ctx,
		stmt,
		a.ID,
		a.CreatedAt.UTC().Format(timeLayout),
		a.Input,
		string(checklistJSON),
		a.Disease,
		a.Display,
		a.Confidence,
		a.Source,
		a.SeverityScore,
		a.SeverityLevel,
		boolToInt(a.Emergency),
		a.Guidance,
		a.Volume,
		string(factorsJSON),
	); err != nil {
		return err
	}

	if err := replaceCandidates(ctx, tx, a.ID, a.Candidates); err != nil {
		return err
	}
	if err := replaceComorbid(ctx, tx, a.ID, a.Comorbid); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceCandidates(ctx context.Context, tx *sql.Tx, id string, cands []store.Candidate) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM assessment_candidates WHERE assessment_id=?`, id); err != nil {
		return err
	}
	if len(cands) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO assessment_candidates (assessment_id, rank, disease, confidence) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range cands {
		if c.Disease == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, c.Rank, c.Disease, c.Confidence); err != nil {
			return err
		}
	}
	return nil
}

func replaceComorbid(ctx context.Context, tx *sql.Tx, id string, diseases []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM assessment_comorbid WHERE assessment_id=?`, id); err != nil {
		return err
	}
	if len(diseases) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO assessment_comorbid (assessment_id, disease) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, d := range diseases {
		if d == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, d); err != nil {
			return err
		}
	}
	return nil
}

// GetAssessment retrieves one assessment by ID.
func (s *sqliteStore) GetAssessment(ctx context.Context, id string) (store.Assessment, bool, error) {
	a, err := s.loadAssessment(ctx, id)
	if err == sql.ErrNoRows {
		return store.Assessment{}, false, nil
	}
	if err != nil {
		return store.Assessment{}, false, err
	}
	return a, true, nil
}

// ListAssessments returns matching assessments, newest first.
func (s *sqliteStore) ListAssessments(ctx context.Context, q store.Query) ([]store.Assessment, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var (
		where []string
		args  []interface{}
	)
	if q.Disease != "" {
		where = append(where, "disease = ?")
		args = append(args, q.Disease)
	}
	if !q.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, q.Since.UTC().Format(timeLayout))
	}

	query := `SELECT id FROM assessments`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var results []store.Assessment
	for _, id := range ids {
		a, err := s.loadAssessment(ctx, id)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, nil
}

func (s *sqliteStore) CountAssessments(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&total)
	return total, err
}

// DeleteAssessmentsBefore removes assessments older than the cutoff.
// Child rows cascade.
func (s *sqliteStore) DeleteAssessmentsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM assessments WHERE created_at < ?`,
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqliteStore) loadAssessment(ctx context.Context, id string) (store.Assessment, error) {
	var (
		a             store.Assessment
		created       string
		checklistJSON string
		factorsJSON   string
		emergency     int
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, created_at, input, checklist, disease, display, confidence,
	source, severity_score, severity_level, emergency, guidance, volume, factors
FROM assessments
WHERE id = ?;
`, id).Scan(
		&a.ID, &created, &a.Input, &checklistJSON, &a.Disease, &a.Display,
		&a.Confidence, &a.Source, &a.SeverityScore, &a.SeverityLevel,
		&emergency, &a.Guidance, &a.Volume, &factorsJSON,
	)
	if err != nil {
		return store.Assessment{}, err
	}

	if created != "" {
		if parsed, perr := time.Parse(timeLayout, created); perr == nil {
			a.CreatedAt = parsed
		}
	}
	a.Emergency = emergency != 0
	if checklistJSON != "" {
		if err := json.Unmarshal([]byte(checklistJSON), &a.Checklist); err != nil {
			return store.Assessment{}, err
		}
	}
	if factorsJSON != "" {
		if err := json.Unmarshal([]byte(factorsJSON), &a.Factors); err != nil {
			return store.Assessment{}, err
		}
	}

	a.Candidates, err = s.loadCandidates(ctx, id)
	if err != nil {
		return store.Assessment{}, err
	}
	a.Comorbid, err = s.loadComorbid(ctx, id)
	if err != nil {
		return store.Assessment{}, err
	}

	return a, nil
}

func (s *sqliteStore) loadCandidates(ctx context.Context, id string) ([]store.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT rank, disease, confidence
FROM assessment_candidates
WHERE assessment_id = ?
ORDER BY rank;
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cands []store.Candidate
	for rows.Next() {
		var c store.Candidate
		if err := rows.Scan(&c.Rank, &c.Disease, &c.Confidence); err != nil {
			return nil, err
		}
		cands = append(cands, c)
	}
	return cands, rows.Err()
}

func (s *sqliteStore) loadComorbid(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT disease
FROM assessment_comorbid
WHERE assessment_id = ?
ORDER BY disease;
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
