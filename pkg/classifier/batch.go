package classifier

import "github.com/pkg/errors"

// Partition is the batch output: every non-empty input token lands in exactly one list,
// in input order, duplicates included.
type Partition struct {
	Ambiguous    []string `json:"ambiguous" yaml:"ambiguous"`
	NonAmbiguous []string `json:"non_ambiguous" yaml:"nonAmbiguous"`
}

// ClassifyMany partitions tokens into ambiguous and non_ambiguous lists.
//
// Routing, in order: proper-word members go to non_ambiguous; an ambiguous outcome or
// common-word membership goes to ambiguous; a non_ambiguous outcome goes to non_ambiguous;
// unresolved tokens go to the configured unresolved bucket. Empty tokens are skipped.
func (s *Scorer) ClassifyMany(tokens []string) Partition {
	p := Partition{
		Ambiguous:    make([]string, 0),
		NonAmbiguous: make([]string, 0),
	}
	skipped := 0
	for _, raw := range tokens {
		res, err := s.Classify(raw)
		if errors.Is(err, ErrEmptyToken) {
			skipped++
			continue
		}
		if s.Bucket(res) == Ambiguous {
			p.Ambiguous = append(p.Ambiguous, res.Token)
		} else {
			p.NonAmbiguous = append(p.NonAmbiguous, res.Token)
		}
	}
	s.logger.Debug("classified tokens",
		"ambiguous", len(p.Ambiguous),
		"non_ambiguous", len(p.NonAmbiguous),
		"skipped", skipped)
	return p
}

// Bucket returns the output list a scored token belongs to. It never returns Unresolved.
func (s *Scorer) Bucket(res Result) Outcome {
	if s.proper.has(res.Normalized) {
		return NonAmbiguous
	}
	if res.Outcome == Ambiguous || res.Signals.InCommonSet {
		return Ambiguous
	}
	if res.Outcome == NonAmbiguous {
		return NonAmbiguous
	}
	return s.unresolved
}
