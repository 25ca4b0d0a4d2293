// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists generated part records in a SQLite database
// and serves lookups, name search, and bulk export.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/birlabs/partgen/internal/confidence"
	"github.com/birlabs/partgen/pkg/types"
)

const dbFile = "catalog.db"

// ErrNotFound reports a part ID with no stored record.
var ErrNotFound = errors.New("part not found")

// StoredPart is a PartRecord with catalog identity attached.
type StoredPart struct {
	ID               string    `json:"id" yaml:"id"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
	types.PartRecord `yaml:",inline"`
}

// Store manages the part catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog database at dataDir/catalog.db and
// creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 200
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS parts (
			id TEXT PRIMARY KEY,
			part_number TEXT NOT NULL,
			product_name TEXT,
			common_name_en TEXT,
			source_confidence TEXT,
			created_at TEXT NOT NULL,
			record TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parts_part_number ON parts(part_number)`,
		`CREATE INDEX IF NOT EXISTS idx_parts_created_at ON parts(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save assigns a fresh ID, reclassifies the confidence label from the
// finished record, and persists it. The summarizer only distinguishes
// derived from no_source_strict; classification here upgrades records
// backed by manufacturer-grade sources to authoritative and downgrades
// sourceless content to ai_guess. The denormalized name columns exist
// only to serve search; the record column is authoritative.
func (s *Store) Save(ctx context.Context, rec types.PartRecord) (StoredPart, error) {
	rec.SourceConfidence = confidence.Classify(rec)

	stored := StoredPart{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		PartRecord: rec,
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return StoredPart{}, fmt.Errorf("marshaling record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO parts (id, part_number, product_name, common_name_en, source_confidence, created_at, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, rec.PartNumber, rec.ProductName, rec.CommonNameEN,
		string(rec.SourceConfidence), stored.CreatedAt.Format(time.RFC3339Nano), string(payload),
	)
	if err != nil {
		return StoredPart{}, fmt.Errorf("inserting part: %w", err)
	}
	return stored, nil
}

// Get returns the stored part for the given ID or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (StoredPart, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, record FROM parts WHERE id = ?`, id)
	stored, err := scanPart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredPart{}, ErrNotFound
	}
	return stored, err
}

// Delete removes the stored part for the given ID or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting part: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the most recently created parts, newest first.
func (s *Store) List(ctx context.Context) ([]StoredPart, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, record FROM parts ORDER BY created_at DESC LIMIT ?`,
		s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("listing parts: %w", err)
	}
	defer rows.Close()
	return collectParts(rows)
}

// SearchByName matches the query as a substring of the part number,
// product name, or English common name, case-insensitively.
func (s *Store) SearchByName(ctx context.Context, query string) ([]StoredPart, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, record FROM parts
		 WHERE part_number LIKE ? OR product_name LIKE ? OR common_name_en LIKE ?
		 ORDER BY created_at DESC LIMIT ?`,
		pattern, pattern, pattern, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching parts: %w", err)
	}
	defer rows.Close()
	return collectParts(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPart(row rowScanner) (StoredPart, error) {
	var (
		stored    StoredPart
		createdAt string
		payload   string
	)
	if err := row.Scan(&stored.ID, &createdAt, &payload); err != nil {
		return StoredPart{}, err
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return StoredPart{}, fmt.Errorf("parsing created_at: %w", err)
	}
	stored.CreatedAt = ts

	if err := json.Unmarshal([]byte(payload), &stored.PartRecord); err != nil {
		return StoredPart{}, fmt.Errorf("unmarshaling record: %w", err)
	}
	return stored, nil
}

func collectParts(rows *sql.Rows) ([]StoredPart, error) {
	parts := []StoredPart{}
	for rows.Next() {
		stored, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating parts: %w", err)
	}
	return parts, nil
}
