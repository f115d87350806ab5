package freq

import (
	"database/sql"
	"os"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	selectZipfSQL = `SELECT zipf FROM word_frequency WHERE word = ?`
	countWordsSQL = `SELECT COUNT(*) FROM word_frequency`
	queryOnlySQL  = `PRAGMA query_only = ON`
)

var errDBNotInitialized = errors.New("database not initialized")

// SQLite looks words up in a pre-built word_frequency table.
type SQLite struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// OpenSQLite opens an existing frequency database. The file is never created.
func OpenSQLite(path string) (*SQLite, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "frequency database not found: %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", path)
	}
	// single connection so the pragma below covers every query
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(queryOnlySQL); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to open database read-only: %s", path)
	}

	stmt, err := db.Prepare(selectZipfSQL)
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to prepare lookup: %s", path)
	}

	s := &SQLite{db: db, stmt: stmt}
	if _, err := s.Len(); err != nil {
		s.Close()
		return nil, errors.Wrapf(err, "word_frequency table missing in %s", path)
	}
	return s, nil
}

// Zipf returns the stored value, 0 for unknown words.
func (s *SQLite) Zipf(word string) (float64, error) {
	if s == nil || s.db == nil {
		return 0, errDBNotInitialized
	}
	var z float64
	err := s.stmt.QueryRow(word).Scan(&z)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "failed to look up %q", word)
	}
	return z, nil
}

// Len returns the number of words in the database.
func (s *SQLite) Len() (int, error) {
	if s == nil || s.db == nil {
		return 0, errDBNotInitialized
	}
	var n int
	if err := s.db.QueryRow(countWordsSQL).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count words")
	}
	return n, nil
}

// Close releases the statement and the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.stmt.Close()
	return s.db.Close()
}
