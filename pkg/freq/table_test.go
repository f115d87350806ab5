package freq

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	in := "# zipf values\nword\tzipf\nThe\t7.73\nhappiness\t4.59\n\nLondon\t5.12\n"

	tbl, err := ParseTable(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	z, err := tbl.Zipf("the")
	require.NoError(t, err)
	assert.InDelta(t, 7.73, z, 1e-9)

	z, err = tbl.Zipf("unknown")
	require.NoError(t, err)
	assert.Zero(t, z)
}

func TestParseTable_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"missing tab", "cat 4.2\n", "line 1"},
		{"bad value after data", "cat\t4.2\ndog\tlots\n", "line 2"},
		{"out of range", "cat\t9.5\n", "out of range"},
		{"negative", "cat\t-1\n", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestNewTable_NormalizesKeys(t *testing.T) {
	tbl := NewTable(map[string]float64{" Paris ": 5.0, "": 1.0})

	assert.Equal(t, 1, tbl.Len())
	z, err := tbl.Zipf("paris")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, z, 0)
	assert.NoError(t, tbl.Close())
}

func TestOpen_Table(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zipf.tsv")
	require.NoError(t, os.WriteFile(path, []byte("cat\t4.5\n"), 0600))

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	z, err := p.Zipf("cat")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, z, 0)
}

func TestOpen_Unavailable(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.tsv")
	require.NoError(t, os.WriteFile(bad, []byte("cat\t4.5\ndog\tx\n"), 0600))

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing table", filepath.Join(dir, "missing.tsv")},
		{"missing database", filepath.Join(dir, "missing.db")},
		{"malformed table", bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Open(tt.path)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, ErrFrequencySignalUnavailable)
		})
	}
}
