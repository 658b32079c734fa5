package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/leasingborsen/pricelist-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	result     TEXT,
	error      TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS run_items (
	id         TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	variant_id TEXT NOT NULL,
	model      TEXT NOT NULL,
	monthly    INTEGER NOT NULL,
	payload    TEXT NOT NULL,
	position   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_document ON runs(document);
CREATE INDEX IF NOT EXISTS idx_run_items_run_id ON run_items(run_id);
CREATE INDEX IF NOT EXISTS idx_run_items_variant_id ON run_items(variant_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, document string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, document, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, document, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Document:  document,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CompleteRun stores the result payload and the individual items in one
// transaction: a run is either fully recorded or not at all.
func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, result *model.ExtractionResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE runs SET result = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(resultJSON), string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run %s", runID)
	}
	if err := checkRowsAffected(res, "run", runID); err != nil {
		return err
	}

	for i, item := range result.Items {
		payload, err := json.Marshal(item)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal item")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_items (id, run_id, variant_id, model, monthly, payload, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), runID, item.ID, item.Model, item.MonthlyPrice, string(payload), i,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert item %s", item.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, reason string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusFailed), reason, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, document, status, result, error, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, document, status, result, error, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Document != "" {
		query += ` AND document = ?`
		args = append(args, filter.Document)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) ListRunItems(ctx context.Context, runID string) ([]model.IdentifiedVariant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM run_items WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list items for run %s", runID)
	}
	defer rows.Close()

	var items []model.IdentifiedVariant
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan item")
		}
		var item model.IdentifiedVariant
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal item")
		}
		items = append(items, item)
	}
	return items, eris.Wrap(rows.Err(), "sqlite: list items iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var resultJSON, errText sql.NullString

	err := row.Scan(&r.ID, &r.Document, &r.Status, &resultJSON, &errText, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if resultJSON.Valid {
		r.Result = &model.ExtractionResult{}
		if err := json.Unmarshal([]byte(resultJSON.String), r.Result); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
	}
	if errText.Valid {
		r.Error = errText.String
	}
	return &r, nil
}
