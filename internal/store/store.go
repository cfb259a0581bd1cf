// Package store persists top-level (define name expr) source text to
// SQLite so a new scheme-session can replay a prior session's
// definitions, grounded on the teacher's mod-sqlite opExec/opQuery
// pattern, narrowed to the single append/replay op pair this core
// needs.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps one SQLite database holding an append-only log of
// top-level defines.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and
// ensures the definitions table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS definitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		expr_source TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Definition is one logged (define name expr) row.
type Definition struct {
	Name       string
	ExprSource string
	CreatedAt  string
}

// Append logs one top-level define.
func (s *Store) Append(name, exprSource, createdAt string) error {
	_, err := s.db.Exec(
		`INSERT INTO definitions (name, expr_source, created_at) VALUES (?, ?, ?)`,
		name, exprSource, createdAt,
	)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}

// Replay returns every logged definition in the order it was defined,
// so a session can re-run them against a fresh environment.
func (s *Store) Replay() ([]Definition, error) {
	rows, err := s.db.Query(`SELECT name, expr_source, created_at FROM definitions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("replay query: %w", err)
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		var d Definition
		if err := rows.Scan(&d.Name, &d.ExprSource, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("replay scan: %w", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("replay rows: %w", err)
	}
	return defs, nil
}
