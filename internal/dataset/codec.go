package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// LoadFile reads a snapshot file. Files ending in .db or .sqlite are read as
// SQLite, anything else as JSON.
func LoadFile(ctx context.Context, path string) (*Snapshot, error) {
	if isSQLitePath(path) {
		return ReadSQLite(ctx, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// SaveFile writes a snapshot using the codec chosen by LoadFile.
func SaveFile(ctx context.Context, path string, s *Snapshot) error {
	if isSQLitePath(path) {
		return WriteSQLite(ctx, path, s)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := WriteJSON(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// WriteJSON encodes the snapshot as {"<table>": [<airtable record>, ...]}.
func WriteJSON(w io.Writer, s *Snapshot) error {
	out := make(map[string][]Record, len(Tables))
	for _, table := range Tables {
		out[string(table)] = s.Records(table)
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

func ReadJSON(r io.Reader) (*Snapshot, error) {
	var in map[string][]Record
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	tables := make(map[Table][]Record, len(in))
	for name, records := range in {
		table, err := ParseTable(name)
		if err != nil {
			return nil, err
		}
		tables[table] = records
	}
	return NewSnapshot(tables)
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	tbl TEXT NOT NULL,
	seq INTEGER NOT NULL,
	key TEXT NOT NULL,
	id TEXT NOT NULL,
	created_time TEXT NOT NULL,
	fields TEXT NOT NULL,
	PRIMARY KEY (tbl, seq)
)`

// WriteSQLite replaces the contents of the snapshot database at path.
func WriteSQLite(ctx context.Context, path string, s *Snapshot) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening snapshot database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating snapshot schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (tbl, seq, key, id, created_time, fields) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, table := range Tables {
		for seq, r := range s.Records(table) {
			fields, err := json.Marshal(r.Fields)
			if err != nil {
				return fmt.Errorf("encode %s %q: %w", table, r.Key, err)
			}
			if _, err := stmt.ExecContext(ctx, string(table), seq, r.Key, r.ID(), r.CreatedTime, string(fields)); err != nil {
				return fmt.Errorf("insert %s %q: %w", table, r.Key, err)
			}
		}
	}
	return tx.Commit()
}

func ReadSQLite(ctx context.Context, path string) (*Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT tbl, key, created_time, fields FROM records ORDER BY tbl, seq`)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	defer rows.Close()

	tables := make(map[Table][]Record)
	for rows.Next() {
		var name, fields string
		var r Record
		if err := rows.Scan(&name, &r.Key, &r.CreatedTime, &fields); err != nil {
			return nil, err
		}
		table, err := ParseTable(name)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fields), &r.Fields); err != nil {
			return nil, fmt.Errorf("decode %s %q: %w", table, r.Key, err)
		}
		tables[table] = append(tables[table], r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewSnapshot(tables)
}
