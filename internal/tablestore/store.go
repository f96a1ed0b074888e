// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tablestore persists generated lookup tables in SQLite and
// resolves stored multi-indices to buffer offsets.
package tablestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/derivindex/internal/lookup"
	"github.com/pdiddy/derivindex/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "derivindex.db"
)

// Store manages the lookup-table SQLite database.
type Store struct {
	db         *sql.DB
	tablesDir  string
	maxResults int
}

// NewStore opens or creates the table database at
// tablesDir/index/derivindex.db, creating the schema if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.TablesDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		tablesDir:  cfg.TablesDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			operator TEXT NOT NULL,
			deriv_order INTEGER NOT NULL,
			natoms INTEGER NOT NULL,
			components INTEGER NOT NULL,
			size INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			run_id TEXT NOT NULL REFERENCES runs(id),
			buffer_index INTEGER NOT NULL,
			combo TEXT NOT NULL,
			PRIMARY KEY (run_id, buffer_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_key ON runs(operator, deriv_order, natoms)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_combo ON entries(run_id, combo)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save persists a generated table under a fresh run ID and returns the
// completed metadata.
func (s *Store) Save(ctx context.Context, table *lookup.Table) (types.TableMeta, error) {
	meta := table.Meta
	meta.RunID = uuid.NewString()
	meta.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.TableMeta{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, operator, deriv_order, natoms, components, size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meta.RunID, string(meta.Operator), meta.DerivOrder, meta.NumAtoms,
		meta.Components, meta.Size, meta.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return types.TableMeta{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (run_id, buffer_index, combo) VALUES (?, ?, ?)`)
	if err != nil {
		return types.TableMeta{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range table.Entries {
		comboJSON, _ := json.Marshal(entry.Combo)
		if _, err := stmt.ExecContext(ctx, meta.RunID, entry.BufferIndex, string(comboJSON)); err != nil {
			return types.TableMeta{}, fmt.Errorf("inserting entry %d: %w", entry.BufferIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.TableMeta{}, fmt.Errorf("committing run: %w", err)
	}
	return meta, nil
}

// Find returns the most recent run matching the operator, order, and atom
// count, or nil when none is stored.
func (s *Store) Find(ctx context.Context, op types.Operator, order, natoms int) (*types.TableMeta, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, operator, deriv_order, natoms, components, size, created_at
		 FROM runs WHERE operator = ? AND deriv_order = ? AND natoms = ?
		 ORDER BY created_at DESC LIMIT 1`,
		string(op), order, natoms,
	)

	meta, err := scanMeta(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up run: %w", err)
	}
	return &meta, nil
}

// Get returns the metadata of a run by ID.
func (s *Store) Get(ctx context.Context, runID string) (types.TableMeta, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, operator, deriv_order, natoms, components, size, created_at
		 FROM runs WHERE id = ?`, runID,
	)

	meta, err := scanMeta(row)
	if err == sql.ErrNoRows {
		return types.TableMeta{}, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return types.TableMeta{}, fmt.Errorf("looking up run: %w", err)
	}
	return meta, nil
}

// List returns stored run metadata, newest first.
func (s *Store) List(ctx context.Context) ([]types.TableMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operator, deriv_order, natoms, components, size, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, s.maxResults,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var metas []types.TableMeta
	for rows.Next() {
		meta, err := scanMeta(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Resolve returns the buffer index stored for a multi-index in the given
// run. The combo is normalized before lookup.
func (s *Store) Resolve(ctx context.Context, runID string, combo []int) (int, error) {
	normalized := make([]int, len(combo))
	copy(normalized, combo)
	sort.Ints(normalized)
	comboJSON, _ := json.Marshal(normalized)

	var idx int
	err := s.db.QueryRowContext(ctx,
		`SELECT buffer_index FROM entries WHERE run_id = ? AND combo = ?`,
		runID, string(comboJSON),
	).Scan(&idx)

	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no entry for multi-index %v in run %s", combo, runID)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving multi-index: %w", err)
	}
	return idx, nil
}

// Entries returns every entry of a run in buffer-index order.
func (s *Store) Entries(ctx context.Context, runID string) ([]types.TableEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT buffer_index, combo FROM entries WHERE run_id = ? ORDER BY buffer_index`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	defer rows.Close()

	var entries []types.TableEntry
	for rows.Next() {
		var (
			entry     types.TableEntry
			comboJSON string
		)
		if err := rows.Scan(&entry.BufferIndex, &comboJSON); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		if err := json.Unmarshal([]byte(comboJSON), &entry.Combo); err != nil {
			return nil, fmt.Errorf("decoding multi-index: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for scanMeta.
type scanner interface {
	Scan(dest ...any) error
}

func scanMeta(row scanner) (types.TableMeta, error) {
	var (
		meta      types.TableMeta
		op        string
		createdAt string
	)
	if err := row.Scan(&meta.RunID, &op, &meta.DerivOrder, &meta.NumAtoms,
		&meta.Components, &meta.Size, &createdAt); err != nil {
		return types.TableMeta{}, err
	}
	meta.Operator = types.Operator(op)

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return types.TableMeta{}, fmt.Errorf("parsing run timestamp: %w", err)
	}
	meta.CreatedAt = ts
	return meta, nil
}
