// Package kv is a flat key-value blob store backed by SQLite.
package kv

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Store struct {
	DB *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{DB: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s *Store) migrate() error {
	_, err := s.DB.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	if err != nil {
		return fmt.Errorf("kv migrate: %w", err)
	}
	return nil
}

// Get returns the value stored under key and whether the key exists.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.DB.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value []byte) error {
	_, err := s.DB.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Delete removes key; deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.DB.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}
