// Package store persists the run ledger: clip runs, their per-layer results,
// and the download cache inventory.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/tiger-clip/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store is a SQLite-backed run ledger.
type Store struct {
	db *sql.DB
}

// New opens a SQLite database at the given path and configures WAL mode.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	request       TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'queued',
	boundary_path TEXT,
	error         TEXT,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS run_layers (
	id            TEXT PRIMARY KEY,
	run_id        TEXT NOT NULL REFERENCES runs(id),
	layer         TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'running',
	features_in   INTEGER NOT NULL DEFAULT 0,
	features_out  INTEGER NOT NULL DEFAULT 0,
	artifact_path TEXT,
	error         TEXT,
	duration_ms   INTEGER NOT NULL DEFAULT 0,
	started_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS datasets (
	id         TEXT PRIMARY KEY,
	url        TEXT NOT NULL UNIQUE,
	path       TEXT NOT NULL,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_run_layers_run_id ON run_layers(run_id);
`

// Migrate applies the schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun records a new queued run for the given request.
func (s *Store) CreateRun(ctx context.Context, req model.Request) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal request")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, request, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(reqJSON), string(model.RunStatusQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: insert run")
	}

	return &model.Run{
		ID:        id,
		Request:   req,
		Status:    model.RunStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateRunStatus moves a run to the given status.
func (s *Store) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "store: update run status %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

// CompleteRun marks a run complete and records its boundary artifact path.
func (s *Store) CompleteRun(ctx context.Context, runID, boundaryPath string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, boundary_path = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusComplete), boundaryPath, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "store: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

// FailRun marks a run failed with the given message.
func (s *Store) FailRun(ctx context.Context, runID, message string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusFailed), message, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "store: fail run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

// GetRun fetches one run by id.
func (s *Store) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, request, status, boundary_path, error, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

// ListRuns returns runs matching the filter, newest first.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, request, status, boundary_path, error, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
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
		return nil, eris.Wrap(err, "store: list runs")
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
	return runs, eris.Wrap(rows.Err(), "store: list runs iterate")
}

// CreateRunLayer records that a layer clip has started.
func (s *Store) CreateRunLayer(ctx context.Context, runID, layer string) (*model.RunLayer, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_layers (id, run_id, layer, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, runID, layer, string(model.LayerStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "store: insert layer for run %s", runID)
	}

	return &model.RunLayer{
		ID:        id,
		RunID:     runID,
		Layer:     layer,
		Status:    model.LayerStatusRunning,
		StartedAt: now,
	}, nil
}

// CompleteRunLayer records a finished layer clip with its counts and artifact.
func (s *Store) CompleteRunLayer(ctx context.Context, layerID string, featuresIn, featuresOut int, artifactPath string, durationMs int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE run_layers SET status = ?, features_in = ?, features_out = ?, artifact_path = ?, duration_ms = ? WHERE id = ?`,
		string(model.LayerStatusComplete), featuresIn, featuresOut, artifactPath, durationMs, layerID,
	)
	if err != nil {
		return eris.Wrapf(err, "store: complete layer %s", layerID)
	}
	return checkRowsAffected(res, "layer", layerID)
}

// FailRunLayer records a failed layer clip.
func (s *Store) FailRunLayer(ctx context.Context, layerID, message string, durationMs int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE run_layers SET status = ?, error = ?, duration_ms = ? WHERE id = ?`,
		string(model.LayerStatusFailed), message, durationMs, layerID,
	)
	if err != nil {
		return eris.Wrapf(err, "store: fail layer %s", layerID)
	}
	return checkRowsAffected(res, "layer", layerID)
}

// ListRunLayers returns the layer records for a run in start order.
func (s *Store) ListRunLayers(ctx context.Context, runID string) ([]model.RunLayer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, layer, status, features_in, features_out, artifact_path, error, duration_ms, started_at
		 FROM run_layers WHERE run_id = ? ORDER BY started_at`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "store: list layers for run %s", runID)
	}
	defer rows.Close()

	var layers []model.RunLayer
	for rows.Next() {
		var rl model.RunLayer
		var artifact, errMsg sql.NullString
		if err := rows.Scan(&rl.ID, &rl.RunID, &rl.Layer, &rl.Status, &rl.FeaturesIn, &rl.FeaturesOut,
			&artifact, &errMsg, &rl.DurationMs, &rl.StartedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan layer row")
		}
		rl.ArtifactPath = artifact.String
		rl.Error = errMsg.String
		layers = append(layers, rl)
	}
	return layers, eris.Wrap(rows.Err(), "store: list layers iterate")
}

// RecordDataset upserts a cache inventory entry keyed by URL.
func (s *Store) RecordDataset(ctx context.Context, url, path string, sizeBytes int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO datasets (id, url, path, size_bytes, fetched_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
			path = excluded.path,
			size_bytes = excluded.size_bytes,
			fetched_at = excluded.fetched_at`,
		uuid.New().String(), url, path, sizeBytes, time.Now().UTC(),
	)
	return eris.Wrap(err, "store: record dataset")
}

// ListDatasets returns the cache inventory, newest first.
func (s *Store) ListDatasets(ctx context.Context) ([]model.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, path, size_bytes, fetched_at FROM datasets ORDER BY fetched_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: list datasets")
	}
	defer rows.Close()

	var datasets []model.Dataset
	for rows.Next() {
		var d model.Dataset
		if err := rows.Scan(&d.ID, &d.URL, &d.Path, &d.SizeBytes, &d.FetchedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan dataset row")
		}
		datasets = append(datasets, d)
	}
	return datasets, eris.Wrap(rows.Err(), "store: list datasets iterate")
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
	var reqJSON string
	var boundary, errMsg sql.NullString

	err := row.Scan(&r.ID, &reqJSON, &r.Status, &boundary, &errMsg, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan run")
	}

	if err := json.Unmarshal([]byte(reqJSON), &r.Request); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal request")
	}
	r.BoundaryPath = boundary.String
	r.Error = errMsg.String
	return &r, nil
}
