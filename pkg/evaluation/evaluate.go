package evaluation

import (
	"log/slog"
	"strings"

	"github.com/mchmarny/ambiclass/pkg/classifier"
	"github.com/pkg/errors"
)

// ErrOverlappingPredictions is returned when a word appears in both prediction lists.
var ErrOverlappingPredictions = errors.New("word present in both prediction lists")

const overlapPreviewLimit = 5

// Confusion holds the 2x2 counts with ambiguous as the positive class.
type Confusion struct {
	TruePositive  int `json:"true_positive" yaml:"truePositive"`
	FalsePositive int `json:"false_positive" yaml:"falsePositive"`
	TrueNegative  int `json:"true_negative" yaml:"trueNegative"`
	FalseNegative int `json:"false_negative" yaml:"falseNegative"`
}

// Total is the number of scored tokens.
func (c Confusion) Total() int {
	return c.TruePositive + c.FalsePositive + c.TrueNegative + c.FalseNegative
}

// Mismatch is one misclassified token.
type Mismatch struct {
	Token     string             `json:"token" yaml:"token"`
	Gold      classifier.Outcome `json:"gold" yaml:"gold"`
	Predicted classifier.Outcome `json:"predicted" yaml:"predicted"`
}

// Metrics is the result of comparing predictions with the gold standard.
type Metrics struct {
	Confusion

	GoldWords             int
	GoldAmbiguous         int
	GoldNonAmbiguous      int
	PredictedAmbiguous    int
	PredictedNonAmbiguous int

	Accuracy  Ratio
	Precision Ratio
	Recall    Ratio
	F1        Ratio

	// Gold words with no prediction, in gold order.
	Missing []string
	// Predicted words with no gold label, in prediction order.
	UnscoredAmbiguous    []string
	UnscoredNonAmbiguous []string

	FalsePositives []string
	FalseNegatives []string

	// Capped sample of misclassified tokens ordered by first occurrence.
	Mismatches []Mismatch
}

type options struct {
	mismatchLimit int
}

// Option configures Evaluate.
type Option func(*options)

// WithMismatchLimit caps the mismatch sample. Zero or less disables it.
func WithMismatchLimit(n int) Option {
	return func(o *options) { o.mismatchLimit = n }
}

type prediction struct {
	token string
	label classifier.Outcome
}

// Evaluate compares the two prediction lists with the gold standard. Tokens are matched
// after classifier.Normalize; repeats within a list count once. The inputs are not modified.
func Evaluate(gold *Gold, ambiguous, nonAmbiguous []string, opts ...Option) (*Metrics, error) {
	if gold == nil {
		return nil, errors.New("gold standard required")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	preds, err := mergePredictions(gold, ambiguous, nonAmbiguous)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		GoldWords:            gold.Len(),
		GoldAmbiguous:        gold.Count(classifier.Ambiguous),
		GoldNonAmbiguous:     gold.Count(classifier.NonAmbiguous),
		Missing:              make([]string, 0),
		UnscoredAmbiguous:    make([]string, 0),
		UnscoredNonAmbiguous: make([]string, 0),
		FalsePositives:       make([]string, 0),
		FalseNegatives:       make([]string, 0),
		Mismatches:           make([]Mismatch, 0),
	}

	predicted := make(map[string]struct{}, len(preds))
	for _, p := range preds {
		key := classifier.Normalize(p.token)
		predicted[key] = struct{}{}

		truth, ok := gold.labels[key]
		if !ok {
			if p.label == classifier.Ambiguous {
				m.UnscoredAmbiguous = append(m.UnscoredAmbiguous, p.token)
			} else {
				m.UnscoredNonAmbiguous = append(m.UnscoredNonAmbiguous, p.token)
			}
			continue
		}

		if p.label == classifier.Ambiguous {
			m.PredictedAmbiguous++
		} else {
			m.PredictedNonAmbiguous++
		}

		switch {
		case truth == classifier.Ambiguous && p.label == classifier.Ambiguous:
			m.TruePositive++
		case truth == classifier.NonAmbiguous && p.label == classifier.NonAmbiguous:
			m.TrueNegative++
		case p.label == classifier.Ambiguous:
			m.FalsePositive++
			m.FalsePositives = append(m.FalsePositives, p.token)
		default:
			m.FalseNegative++
			m.FalseNegatives = append(m.FalseNegatives, p.token)
		}

		if truth != p.label && len(m.Mismatches) < o.mismatchLimit {
			m.Mismatches = append(m.Mismatches, Mismatch{Token: p.token, Gold: truth, Predicted: p.label})
		}
	}

	for _, key := range gold.order {
		if _, ok := predicted[key]; !ok {
			m.Missing = append(m.Missing, gold.spelling[key])
		}
	}

	m.Accuracy = newRatio(m.TruePositive+m.TrueNegative, m.Total())
	m.Precision = newRatio(m.TruePositive, m.TruePositive+m.FalsePositive)
	m.Recall = newRatio(m.TruePositive, m.TruePositive+m.FalseNegative)
	m.F1 = f1(m.Precision, m.Recall)

	slog.Debug("evaluation",
		"scored", m.Total(),
		"missing", len(m.Missing),
		"unscored", len(m.UnscoredAmbiguous)+len(m.UnscoredNonAmbiguous),
		"accuracy", m.Accuracy.String())

	return m, nil
}

// mergePredictions dedupes both lists by normalized token, ambiguous list first.
// A gold word predicted in both lists is an error; other words keep their first label.
func mergePredictions(gold *Gold, ambiguous, nonAmbiguous []string) ([]prediction, error) {
	seen := make(map[string]classifier.Outcome, len(ambiguous)+len(nonAmbiguous))
	out := make([]prediction, 0, len(ambiguous)+len(nonAmbiguous))
	var overlap []string

	add := func(tokens []string, label classifier.Outcome) {
		for _, t := range tokens {
			key := classifier.Normalize(t)
			if key == "" {
				continue
			}
			if prev, ok := seen[key]; ok {
				_, labeled := gold.labels[key]
				if prev != label && labeled && len(overlap) < overlapPreviewLimit {
					overlap = append(overlap, strings.TrimSpace(t))
				}
				continue
			}
			seen[key] = label
			out = append(out, prediction{token: strings.TrimSpace(t), label: label})
		}
	}
	add(ambiguous, classifier.Ambiguous)
	add(nonAmbiguous, classifier.NonAmbiguous)

	if len(overlap) > 0 {
		return nil, errors.Wrapf(ErrOverlappingPredictions, "examples: %s", strings.Join(overlap, ", "))
	}
	return out, nil
}

func f1(p, r Ratio) Ratio {
	if !p.Defined || !r.Defined || p.Value+r.Value == 0 {
		return Ratio{}
	}
	return Ratio{Value: 2 * p.Value * r.Value / (p.Value + r.Value), Defined: true}
}
