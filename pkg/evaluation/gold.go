package evaluation

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/mchmarny/ambiclass/pkg/classifier"
	"github.com/mchmarny/ambiclass/pkg/wordlist"
	"github.com/pkg/errors"
)

const (
	wordColumn  = "Word"
	truthColumn = "Truth"
)

var (
	// ErrMalformedGoldStandard is returned when the gold table lacks a required column.
	ErrMalformedGoldStandard = errors.New("malformed gold standard")

	// ErrUnsupportedTruthLabel is returned for a Truth value outside the known labels.
	ErrUnsupportedTruthLabel = errors.New("unsupported truth label")

	// ErrConflictingGoldLabel is returned when one word carries two different labels.
	ErrConflictingGoldLabel = errors.New("conflicting gold labels")
)

var truthLabels = map[string]classifier.Outcome{
	"ambiguous":      classifier.Ambiguous,
	"ambiguous noun": classifier.Ambiguous,
	"common":         classifier.Ambiguous,
	"common noun":    classifier.Ambiguous,
	"non_ambiguous":  classifier.NonAmbiguous,
	"non-ambiguous":  classifier.NonAmbiguous,
	"proper":         classifier.NonAmbiguous,
	"proper noun":    classifier.NonAmbiguous,
}

// ParseLabel maps a Truth cell onto an outcome, case-insensitively.
func ParseLabel(s string) (classifier.Outcome, error) {
	if l, ok := truthLabels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return "", errors.Wrapf(ErrUnsupportedTruthLabel, "%q, expected %s or %s",
		s, classifier.Ambiguous, classifier.NonAmbiguous)
}

// Gold is the ground truth keyed by normalized word.
type Gold struct {
	labels   map[string]classifier.Outcome
	spelling map[string]string
	order    []string
}

// NewGold returns an empty gold standard.
func NewGold() *Gold {
	return &Gold{
		labels:   make(map[string]classifier.Outcome),
		spelling: make(map[string]string),
	}
}

// Add records a label. Repeating a word with the same label is a no-op; a different
// label is an ErrConflictingGoldLabel. Blank words are ignored.
func (g *Gold) Add(word string, label classifier.Outcome) error {
	if label != classifier.Ambiguous && label != classifier.NonAmbiguous {
		return errors.Wrapf(ErrUnsupportedTruthLabel, "%q", label)
	}
	key := classifier.Normalize(word)
	if key == "" {
		return nil
	}
	if existing, ok := g.labels[key]; ok {
		if existing != label {
			return errors.Wrapf(ErrConflictingGoldLabel, "word %q: %s vs %s", word, existing, label)
		}
		return nil
	}
	g.labels[key] = label
	g.spelling[key] = strings.TrimSpace(word)
	g.order = append(g.order, key)
	return nil
}

// Label returns the label for a token after normalization.
func (g *Gold) Label(token string) (classifier.Outcome, bool) {
	l, ok := g.labels[classifier.Normalize(token)]
	return l, ok
}

// Len returns the number of distinct gold words.
func (g *Gold) Len() int {
	return len(g.order)
}

// Count returns how many gold words carry the label.
func (g *Gold) Count(label classifier.Outcome) int {
	n := 0
	for _, l := range g.labels {
		if l == label {
			n++
		}
	}
	return n
}

// ParseGold reads a tab-separated table with Word and Truth header columns in any order.
func ParseGold(r io.Reader) (*Gold, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(ErrMalformedGoldStandard, "empty file, expected a Word and Truth header")
		}
		return nil, errors.Wrap(err, "failed to read gold standard header")
	}
	for i := range header {
		header[i] = cleanCell(header[i])
	}

	wordIdx := findColumn(header, wordColumn)
	if wordIdx < 0 {
		return nil, errors.Wrapf(ErrMalformedGoldStandard, "missing %q column", wordColumn)
	}
	truthIdx := findColumn(header, truthColumn)
	if truthIdx < 0 {
		return nil, errors.Wrapf(ErrMalformedGoldStandard, "missing %q column", truthColumn)
	}

	g := NewGold()
	row := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read gold standard row %d", row)
		}
		word := cell(rec, wordIdx)
		if word == "" {
			continue
		}
		label, err := ParseLabel(cell(rec, truthIdx))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", row)
		}
		if err := g.Add(word, label); err != nil {
			return nil, errors.Wrapf(err, "row %d", row)
		}
	}
	return g, nil
}

// LoadGold reads the gold standard TSV from disk.
func LoadGold(path string) (*Gold, error) {
	f, err := wordlist.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := ParseGold(f)
	if err != nil {
		return nil, errors.Wrapf(err, "gold standard %s", path)
	}
	return g, nil
}

func cleanCell(v string) string {
	return strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
}

func cell(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return cleanCell(rec[idx])
}

func findColumn(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}
