// Package freq provides Zipf-scale word frequency lookups for the classifier.
// Sources are flat TSV tables or read-only SQLite databases.
package freq

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// MaxZipf is the upper end of the Zipf scale.
const MaxZipf = 8.0

// ErrFrequencySignalUnavailable means no frequency source could be loaded. Callers are
// expected to recover by running the classifier with the signal neutralized.
var ErrFrequencySignalUnavailable = errors.New("frequency signal unavailable")

// Provider returns the Zipf frequency of a normalized word, 0 when unknown.
type Provider interface {
	Zipf(word string) (float64, error)
	io.Closer
}

// Open loads a provider from path. SQLite files are recognized by extension
// (.db, .sqlite, .sqlite3); anything else is read as a TSV table.
// Every failure is reported as ErrFrequencySignalUnavailable.
func Open(path string) (Provider, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.Wrap(ErrFrequencySignalUnavailable, "no frequency source configured")
	}

	var (
		p   Provider
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		p, err = OpenSQLite(path)
	default:
		p, err = LoadTable(path)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrFrequencySignalUnavailable, "%s: %v", path, err)
	}
	return p, nil
}
