package classifier

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// Outcome is the categorical result of scoring a token.
type Outcome string

const (
	Ambiguous    Outcome = "ambiguous"
	NonAmbiguous Outcome = "non_ambiguous"
	Unresolved   Outcome = "unresolved"
)

var (
	// ErrEmptyToken is returned for empty or whitespace-only tokens.
	ErrEmptyToken = errors.New("empty token")

	errInvalidBucket = errors.New("unresolved tokens must go to the ambiguous or non_ambiguous bucket")
)

// FrequencyProvider looks up a Zipf-scale popularity score for a normalized word.
// Unknown words score 0.
type FrequencyProvider interface {
	Zipf(word string) (float64, error)
}

// Signals holds the raw inputs to the model for one token.
type Signals struct {
	InCommonSet bool    `json:"in_common_set" yaml:"inCommonSet"` // member of the common-word set
	Frequency   float64 `json:"frequency" yaml:"frequency"`       // Zipf score, 0 when the signal is off
	Length      int     `json:"length" yaml:"length"`             // rune count of the normalized token
	Suffix      float64 `json:"suffix" yaml:"suffix"`             // always 0
}

// Result describes how a single token was scored.
type Result struct {
	Token      string  `json:"token" yaml:"token"`
	Normalized string  `json:"normalized" yaml:"normalized"`
	Signals    Signals `json:"signals" yaml:"signals"`
	Terms      Terms   `json:"terms" yaml:"terms"`
	Score      float64 `json:"score" yaml:"score"`
	Outcome    Outcome `json:"outcome" yaml:"outcome"`
	Reason     string  `json:"reason" yaml:"reason"`
}

// Scorer classifies tokens with a fixed-weight linear model.
type Scorer struct {
	common       WordSet
	proper       WordSet
	provider     FrequencyProvider
	useFrequency bool
	weights      Weights
	unresolved   Outcome
	logger       *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithCommonWords replaces the bundled common-word set.
func WithCommonWords(s WordSet) Option {
	return func(sc *Scorer) { sc.common = s }
}

// WithProperWords sets words that are always routed to the non_ambiguous bucket.
func WithProperWords(s WordSet) Option {
	return func(sc *Scorer) { sc.proper = s }
}

// WithFrequency sets the frequency provider. A nil provider disables the signal.
func WithFrequency(p FrequencyProvider) Option {
	return func(sc *Scorer) { sc.provider = p }
}

// WithFrequencyEnabled toggles the frequency signal.
func WithFrequencyEnabled(enabled bool) Option {
	return func(sc *Scorer) { sc.useFrequency = enabled }
}

// WithWeights replaces the reference weight set.
func WithWeights(w Weights) Option {
	return func(sc *Scorer) { sc.weights = w }
}

// WithUnresolvedBucket selects where batch classification puts unresolved tokens.
func WithUnresolvedBucket(o Outcome) Option {
	return func(sc *Scorer) { sc.unresolved = o }
}

// WithLogger sets the logger used for per-token debug output.
func WithLogger(l *slog.Logger) Option {
	return func(sc *Scorer) { sc.logger = l }
}

// New creates a Scorer. Defaults: bundled common words, frequency off,
// reference weights, unresolved tokens go to non_ambiguous.
func New(opts ...Option) (*Scorer, error) {
	s := &Scorer{
		common:     CommonWords(),
		weights:    DefaultWeights(),
		unresolved: NonAmbiguous,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.unresolved != Ambiguous && s.unresolved != NonAmbiguous {
		return nil, errors.Wrapf(errInvalidBucket, "%q", s.unresolved)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// FrequencyActive reports whether the frequency signal contributes to scores.
func (s *Scorer) FrequencyActive() bool {
	return s.useFrequency && s.provider != nil
}

// Classify scores a single token.
func (s *Scorer) Classify(token string) (Result, error) {
	token = strings.TrimSpace(token)
	normalized := Normalize(token)
	if normalized == "" {
		return Result{}, ErrEmptyToken
	}

	sig := Signals{
		InCommonSet: s.common.has(normalized),
		Frequency:   s.frequency(normalized),
		Length:      keyLength(normalized),
	}
	terms := s.weights.Terms(sig)
	score := terms.Sum()
	out := s.weights.Outcome(score)

	s.logger.Debug("score",
		"token", token,
		"membership", terms.Membership,
		"frequency", terms.Frequency,
		"length", terms.Length,
		"score", score,
		"outcome", out)

	return Result{
		Token:      token,
		Normalized: normalized,
		Signals:    sig,
		Terms:      terms,
		Score:      score,
		Outcome:    out,
		Reason:     s.reason(sig),
	}, nil
}

func (s *Scorer) frequency(normalized string) float64 {
	if !s.FrequencyActive() {
		return 0
	}
	z, err := s.provider.Zipf(normalized)
	if err != nil {
		s.logger.Debug("frequency lookup failed, using neutral value", "word", normalized, "error", err)
		return 0
	}
	return z
}

func (s *Scorer) reason(sig Signals) string {
	zipf := "zipf=n/a"
	if s.FrequencyActive() {
		zipf = fmt.Sprintf("zipf=%.2f", sig.Frequency)
	}
	return fmt.Sprintf("%s;len_delta=%d", zipf, sig.Length-s.weights.LengthNeutral)
}
