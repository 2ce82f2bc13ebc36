package index

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLStore persists entries into a single-file sqlite database with one
// table per level, upserting on the level's UID so rescans are
// reentrant. Last write wins.
type SQLStore struct {
	db  *sql.DB
	cfg *Config
	tx  *sql.Tx
}

// OpenSQLStore opens (or creates) the database file and ensures the three
// level tables exist with the configured columns plus filepath.
func OpenSQLStore(path string, cfg *Config) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexStore, err)
	}
	s := &SQLStore{db: db, cfg: cfg}
	for _, level := range Levels {
		if err := s.createTable(level); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// DB exposes the handle for read-side consumers (the query service).
func (s *SQLStore) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) createTable(level Level) error {
	fields := s.cfg.FieldsFor(level)
	cols := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		cols = append(cols, quoteIdent(f)+" TEXT")
	}
	cols = append(cols, `"filepath" TEXT`)
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s, UNIQUE(%s))",
		quoteIdent(string(level)), strings.Join(cols, ", "), quoteIdent(level.KeyField()))
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrIndexStore, level, err)
	}
	return nil
}

func (s *SQLStore) Begin() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexStore, err)
	}
	s.tx = tx
	return nil
}

func (s *SQLStore) Commit() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexStore, err)
	}
	return nil
}

// Write upserts the entry into each level table it has a key for. A file
// without a SOPInstanceUID still contributes its study and series rows.
func (s *SQLStore) Write(e Entry) error {
	for _, level := range Levels {
		key := level.KeyField()
		if v, ok := e.Fields[key]; !ok || v == "" {
			continue
		}
		if err := s.upsert(level, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) upsert(level Level, e Entry) error {
	fields := s.cfg.FieldsFor(level)
	cols := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	var updates []string
	for _, f := range fields {
		cols = append(cols, quoteIdent(f))
		if v, ok := e.Fields[f]; ok {
			args = append(args, v)
		} else {
			args = append(args, nil)
		}
		if f != level.KeyField() {
			updates = append(updates, fmt.Sprintf("%s=excluded.%s", quoteIdent(f), quoteIdent(f)))
		}
	}
	cols = append(cols, `"filepath"`)
	args = append(args, e.Path)
	updates = append(updates, `"filepath"=excluded."filepath"`)

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		quoteIdent(string(level)),
		strings.Join(cols, ", "),
		placeholders(len(cols)),
		quoteIdent(level.KeyField()),
		strings.Join(updates, ", "))

	exec := s.db.Exec
	if s.tx != nil {
		exec = s.tx.Exec
	}
	if _, err := exec(stmt, args...); err != nil {
		return fmt.Errorf("%w: upsert into %s: %v", ErrIndexStore, level, err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
