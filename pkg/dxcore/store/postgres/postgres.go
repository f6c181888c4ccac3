// Package postgres implements store.Store on a pgx connection pool.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

type pgStore struct {
	pool *pgxpool.Pool
}

// Open connects a pool, verifies it and ensures the schema.
func Open(ctx context.Context, dsn string) (store.Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &pgStore{pool: pool}, nil
}

func (s *pgStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
CREATE TABLE IF NOT EXISTS assessments (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	input TEXT NOT NULL DEFAULT '',
	checklist JSONB NOT NULL DEFAULT '[]',
	disease TEXT NOT NULL DEFAULT '',
	display TEXT NOT NULL DEFAULT '',
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT '',
	severity_score INTEGER NOT NULL DEFAULT 0,
	severity_level TEXT NOT NULL DEFAULT '',
	emergency BOOLEAN NOT NULL DEFAULT FALSE,
	guidance TEXT NOT NULL DEFAULT '',
	volume INTEGER NOT NULL DEFAULT 0,
	factors JSONB NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_assessments_created ON assessments(created_at);
CREATE INDEX IF NOT EXISTS idx_assessments_disease ON assessments(disease);

CREATE TABLE IF NOT EXISTS assessment_candidates (
	assessment_id TEXT NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
	rank INTEGER NOT NULL,
	disease TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	UNIQUE(assessment_id, rank)
);

CREATE TABLE IF NOT EXISTS assessment_comorbid (
	assessment_id TEXT NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
	disease TEXT NOT NULL,
	UNIQUE(assessment_id, disease)
);
`
	_, err := pool.Exec(ctx, schema)
	return err
}

func (s *pgStore) UpsertAssessment(ctx context.Context, a store.Assessment) error {
	checklistJSON, err := json.Marshal(a.Checklist)
	if err != nil {
		return err
	}
	factorsJSON, err := json.Marshal(a.Factors)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const stmt = `
INSERT INTO assessments (
	id, created_at, input, checklist, disease, display, confidence,
	source, severity_score, severity_level, emergency, guidance,
	volume, factors
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET
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

	if _, err := tx.Exec(
		ctx,
		stmt,
		a.ID,
		a.CreatedAt.UTC(),
		a.Input,
		string(checklistJSON),
		a.Disease,
		a.Display,
		a.Confidence,
		a.Source,
		a.SeverityScore,
		a.SeverityLevel,
		a.Emergency,
		a.Guidance,
		a.Volume,
		string(factorsJSON),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM assessment_candidates WHERE assessment_id=$1`, a.ID); err != nil {
		return err
	}
	for _, c := range a.Candidates {
		if c.Disease == "" {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO assessment_candidates (assessment_id, rank, disease, confidence) VALUES ($1, $2, $3, $4)`,
			a.ID, c.Rank, c.Disease, c.Confidence,
		); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM assessment_comorbid WHERE assessment_id=$1`, a.ID); err != nil {
		return err
	}
	for _, d := range a.Comorbid {
		if d == "" {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO assessment_comorbid (assessment_id, disease) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			a.ID, d,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *pgStore) GetAssessment(ctx context.Context, id string) (store.Assessment, bool, error) {
	a, err := s.loadAssessment(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Assessment{}, false, nil
	}
	if err != nil {
		return store.Assessment{}, false, err
	}
	return a, true, nil
}

func (s *pgStore) ListAssessments(ctx context.Context, q store.Query) ([]store.Assessment, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var (
		where []string
		args  []interface{}
	)
	if q.Disease != "" {
		args = append(args, q.Disease)
		where = append(where, fmt.Sprintf("disease = $%d", len(args)))
	}
	if !q.Since.IsZero() {
		args = append(args, q.Since.UTC())
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	query := `SELECT id FROM assessments`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
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

func (s *pgStore) CountAssessments(ctx context.Context) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&total)
	return total, err
}

func (s *pgStore) DeleteAssessmentsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM assessments WHERE created_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *pgStore) loadAssessment(ctx context.Context, id string) (store.Assessment, error) {
	var (
		a             store.Assessment
		created       time.Time
		checklistJSON []byte
		factorsJSON   []byte
	)
	err := s.pool.QueryRow(ctx, `
SELECT id, created_at, input, checklist, disease, display, confidence,
	source, severity_score, severity_level, emergency, guidance, volume, factors
FROM assessments
WHERE id = $1;
`, id).Scan(
		&a.ID, &created, &a.Input, &checklistJSON, &a.Disease, &a.Display,
		&a.Confidence, &a.Source, &a.SeverityScore, &a.SeverityLevel,
		&a.Emergency, &a.Guidance, &a.Volume, &factorsJSON,
	)
	if err != nil {
		return store.Assessment{}, err
	}

	a.CreatedAt = created
	if len(checklistJSON) > 0 {
		if err := json.Unmarshal(checklistJSON, &a.Checklist); err != nil {
			return store.Assessment{}, err
		}
	}
	if len(factorsJSON) > 0 {
		if err := json.Unmarshal(factorsJSON, &a.Factors); err != nil {
			return store.Assessment{}, err
		}
	}

	rows, err := s.pool.Query(ctx, `
SELECT rank, disease, confidence
FROM assessment_candidates
WHERE assessment_id = $1
ORDER BY rank;
`, id)
	if err != nil {
		return store.Assessment{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var c store.Candidate
		if err := rows.Scan(&c.Rank, &c.Disease, &c.Confidence); err != nil {
			return store.Assessment{}, err
		}
		a.Candidates = append(a.Candidates, c)
	}
	if err := rows.Err(); err != nil {
		return store.Assessment{}, err
	}

	crows, err := s.pool.Query(ctx, `
SELECT disease
FROM assessment_comorbid
WHERE assessment_id = $1
ORDER BY disease;
`, id)
	if err != nil {
		return store.Assessment{}, err
	}
	defer crows.Close()
	for crows.Next() {
		var d string
		if err := crows.Scan(&d); err != nil {
			return store.Assessment{}, err
		}
		a.Comorbid = append(a.Comorbid, d)
	}
	return a, crows.Err()
}
