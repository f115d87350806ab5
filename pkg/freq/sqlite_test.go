package freq

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDB(t *testing.T, rows map[string]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zipf.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE word_frequency (word TEXT PRIMARY KEY, zipf REAL NOT NULL)`)
	require.NoError(t, err)
	for w, z := range rows {
		_, err = db.Exec(`INSERT INTO word_frequency (word, zipf) VALUES (?, ?)`, w, z)
		require.NoError(t, err)
	}
	return path
}

func TestOpenSQLite(t *testing.T) {
	path := createTestDB(t, map[string]float64{"happiness": 4.59, "london": 5.12})

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	z, err := s.Zipf("london")
	require.NoError(t, err)
	assert.InDelta(t, 5.12, z, 1e-9)

	z, err = s.Zipf("unknown")
	require.NoError(t, err)
	assert.Zero(t, z)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOpenSQLite_ReadOnly(t *testing.T) {
	path := createTestDB(t, map[string]float64{"cat": 4.0})

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`DELETE FROM word_frequency`)
	assert.Error(t, err)
}

func TestOpenSQLite_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenSQLite(filepath.Join(dir, "missing.db"))
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "missing.db"))
	assert.True(t, os.IsNotExist(statErr))

	empty := filepath.Join(dir, "empty.db")
	db, err := sql.Open("sqlite", empty)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE other (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = OpenSQLite(empty)
	assert.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	path := createTestDB(t, map[string]float64{"cat": 4.2})

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	z, err := p.Zipf("cat")
	require.NoError(t, err)
	assert.InDelta(t, 4.2, z, 1e-9)
}

func TestSQLite_NilSafe(t *testing.T) {
	var s *SQLite

	_, err := s.Zipf("cat")
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = s.Len()
	assert.ErrorIs(t, err, errDBNotInitialized)
	assert.NoError(t, s.Close())
}
