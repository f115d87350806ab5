package freq

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mchmarny/ambiclass/pkg/classifier"
	"github.com/mchmarny/ambiclass/pkg/wordlist"
	"github.com/pkg/errors"
)

// Table is an in-memory frequency provider.
type Table struct {
	zipf map[string]float64
}

// NewTable builds a table from word to Zipf pairs. Keys are normalized the way the
// classifier normalizes tokens.
func NewTable(values map[string]float64) *Table {
	t := &Table{zipf: make(map[string]float64, len(values))}
	for w, z := range values {
		if n := classifier.Normalize(w); n != "" {
			t.zipf[n] = z
		}
	}
	return t
}

// ParseTable reads `word<TAB>zipf` lines. Blank lines and # comments are skipped,
// and a first line whose value is not numeric is taken as a header.
func ParseTable(r io.Reader) (*Table, error) {
	values := make(map[string]float64)
	scanner := bufio.NewScanner(r)
	line := 0
	header := true
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		maybeHeader := header
		header = false
		parts := strings.Split(text, "\t")
		if len(parts) < 2 {
			return nil, errors.Errorf("line %d: expected word and zipf separated by a tab", line)
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			if maybeHeader {
				continue
			}
			return nil, errors.Wrapf(err, "line %d: invalid zipf value %q", line, parts[1])
		}
		if z < 0 || z > MaxZipf {
			return nil, errors.Errorf("line %d: zipf value %v out of range [0, %v]", line, z, MaxZipf)
		}
		values[parts[0]] = z
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan frequency table")
	}
	return NewTable(values), nil
}

// LoadTable reads a TSV frequency table from disk.
func LoadTable(path string) (*Table, error) {
	f, err := wordlist.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading frequency table: %s", path)
	}
	return t, nil
}

// Zipf returns the stored value or 0 for unknown words.
func (t *Table) Zipf(word string) (float64, error) {
	return t.zipf[word], nil
}

// Len returns the number of words in the table.
func (t *Table) Len() int {
	return len(t.zipf)
}

// Close is a no-op.
func (t *Table) Close() error {
	return nil
}
