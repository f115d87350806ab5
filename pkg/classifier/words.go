package classifier

import (
	"bufio"
	_ "embed"
	"io"
	"strings"
	"sync"

	"github.com/mchmarny/ambiclass/pkg/wordlist"
	"github.com/pkg/errors"
)

//go:embed data/common.txt
var commonWordsData string

// WordSet is an immutable set of normalized words.
type WordSet struct {
	words map[string]struct{}
}

// NewWordSet builds a set from raw words, normalizing each one. Blank entries are ignored.
func NewWordSet(words ...string) WordSet {
	s := WordSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if n := Normalize(w); n != "" {
			s.words[n] = struct{}{}
		}
	}
	return s
}

// Contains reports whether the token, after normalization, is in the set.
func (s WordSet) Contains(token string) bool {
	return s.has(Normalize(token))
}

func (s WordSet) has(normalized string) bool {
	if s.words == nil {
		return false
	}
	_, ok := s.words[normalized]
	return ok
}

// Len returns the number of distinct words.
func (s WordSet) Len() int {
	return len(s.words)
}

// ParseWordSet reads one word per line. Blank lines and lines starting with # are skipped.
func ParseWordSet(r io.Reader) (WordSet, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return WordSet{}, errors.Wrap(err, "failed to scan word set")
	}
	return NewWordSet(words...), nil
}

// LoadWordSet reads a word set file from disk.
func LoadWordSet(path string) (WordSet, error) {
	f, err := wordlist.Open(path)
	if err != nil {
		return WordSet{}, err
	}
	defer f.Close()

	s, err := ParseWordSet(f)
	if err != nil {
		return WordSet{}, errors.Wrapf(err, "error reading word set: %s", path)
	}
	return s, nil
}

var bundledCommonWords = sync.OnceValue(func() WordSet {
	s, err := ParseWordSet(strings.NewReader(commonWordsData))
	if err != nil {
		// embedded data is a strings.Reader, scanning cannot fail
		panic(err)
	}
	return s
})

// CommonWords returns the bundled common-noun set. It is parsed once and shared read-only.
func CommonWords() WordSet {
	return bundledCommonWords()
}
