package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/leasingborsen/pricelist-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock implements
// it, which keeps the Postgres backend unit-testable without a server.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	document   TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	result     JSONB,
	error      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS run_items (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	variant_id TEXT NOT NULL,
	model      TEXT NOT NULL,
	monthly    INTEGER NOT NULL,
	payload    JSONB NOT NULL,
	position   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_document ON runs(document);
CREATE INDEX IF NOT EXISTS idx_run_items_run_id ON run_items(run_id);
CREATE INDEX IF NOT EXISTS idx_run_items_variant_id ON run_items(variant_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, document string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, document, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, document, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Document:  document,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, result *model.ExtractionResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		`UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		resultJSON, string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}

	for i, item := range result.Items {
		payload, err := json.Marshal(item)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal item")
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO run_items (id, run_id, variant_id, model, monthly, payload, position) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New().String(), runID, item.ID, item.Model, item.MonthlyPrice, payload, i,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert item %s", item.ID)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string, reason string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, error = $2, updated_at = $3 WHERE id = $4`,
		string(model.RunStatusFailed), reason, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, document, status, result, error, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	)
	r, err := scanPgRun(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, document, status, result, error, created_at, updated_at FROM runs WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.Document != "" {
		query += ` AND document = ` + arg(filter.Document)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) ListRunItems(ctx context.Context, runID string) ([]model.IdentifiedVariant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM run_items WHERE run_id = $1 ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list items for run %s", runID)
	}
	defer rows.Close()

	var items []model.IdentifiedVariant
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan item")
		}
		var item model.IdentifiedVariant
		if err := json.Unmarshal(payload, &item); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal item")
		}
		items = append(items, item)
	}
	return items, eris.Wrap(rows.Err(), "postgres: list items iterate")
}

func scanPgRun(row pgx.Row) (*model.Run, error) {
	var r model.Run
	var resultJSON []byte
	var errText *string

	err := row.Scan(&r.ID, &r.Document, &r.Status, &resultJSON, &errText, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, err
	}

	if len(resultJSON) > 0 {
		r.Result = &model.ExtractionResult{}
		if err := json.Unmarshal(resultJSON, r.Result); err != nil {
			return nil, eris.Wrap(err, "unmarshal result")
		}
	}
	if errText != nil {
		r.Error = *errText
	}
	return &r, nil
}
