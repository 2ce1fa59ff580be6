// Package store archives extracted GTA records in SQLite so earlier runs can
// be listed and looked up by GTA number.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/a3tai/mcp-gta-reader/internal/gta"
)

// ErrNotFound is returned when no archived record matches
var ErrNotFound = errors.New("store: record not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS gta_records (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	numero_gta     TEXT,
	source_path    TEXT NOT NULL,
	content_hash   TEXT NOT NULL UNIQUE,
	record_json    TEXT NOT NULL,
	category_count INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at     DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_gta_records_numero ON gta_records(numero_gta);

CREATE TABLE IF NOT EXISTS gta_categories (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	record_id  INTEGER NOT NULL REFERENCES gta_records(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	grupo      TEXT NOT NULL,
	especie    TEXT NOT NULL,
	categoria  TEXT,
	faixa      TEXT NOT NULL,
	sexo       TEXT NOT NULL,
	quantidade INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gta_categories_record ON gta_categories(record_id);
`

// Record is an archived extraction
type Record struct {
	ID          int64              `json:"id"`
	NumeroGTA   string             `json:"numero_gta"`
	SourcePath  string             `json:"source_path"`
	ContentHash string             `json:"content_hash"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
	Data        gta.DocumentRecord `json:"data"`
}

// CategoryTotal is the number of heads archived for a species and sex
type CategoryTotal struct {
	Especie    string `json:"especie"`
	Sexo       string `json:"sexo"`
	Quantidade int    `json:"quantidade"`
}

// Store wraps the SQLite archive
type Store struct {
	db *sql.DB
}

// New opens (or creates) the archive at dbPath
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives a record. Saving identical content again only refreshes the
// source path and timestamp.
func (s *Store) Save(ctx context.Context, sourcePath string, rec gta.DocumentRecord) (int64, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("encoding record: %w", err)
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM gta_records WHERE content_hash = ?`, hash).Scan(&id)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx,
			`UPDATE gta_records SET source_path = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			sourcePath, id); err != nil {
			return 0, fmt.Errorf("updating record: %w", err)
		}
		return id, tx.Commit()
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("looking up record: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO gta_records (numero_gta, source_path, content_hash, record_json, category_count)
		 VALUES (?, ?, ?, ?, ?)`,
		nullString(rec.NumeroGTA), sourcePath, hash, string(data), len(rec.Categorias))
	if err != nil {
		return 0, fmt.Errorf("inserting record: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading record id: %w", err)
	}

	for i, c := range rec.Categorias {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gta_categories (record_id, position, grupo, especie, categoria, faixa, sexo, quantidade)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, c.Grupo, c.Especie, nullString(c.Categoria), c.Faixa, c.Sexo, c.Quantidade); err != nil {
			return 0, fmt.Errorf("inserting category %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing record: %w", err)
	}
	return id, nil
}

const selectRecord = `SELECT id, COALESCE(numero_gta, ''), source_path, content_hash, record_json,
	created_at, updated_at FROM gta_records`

// Get returns the most recent archived record for a GTA number
func (s *Store) Get(ctx context.Context, numero string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+` WHERE numero_gta = ? ORDER BY id DESC LIMIT 1`, numero)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// List returns up to limit archived records, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectRecord+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// Totals sums archived heads per species and sex
func (s *Store) Totals(ctx context.Context) ([]CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT especie, sexo, SUM(quantidade) FROM gta_categories
		 GROUP BY especie, sexo ORDER BY especie, sexo`)
	if err != nil {
		return nil, fmt.Errorf("summing categories: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var t CategoryTotal
		if err := rows.Scan(&t.Especie, &t.Sexo, &t.Quantidade); err != nil {
			return nil, fmt.Errorf("scanning total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var r Record
	var data string
	if err := row.Scan(&r.ID, &r.NumeroGTA, &r.SourcePath, &r.ContentHash, &data, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &r.Data); err != nil {
		return nil, fmt.Errorf("decoding record %d: %w", r.ID, err)
	}
	return &r, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
