package classifier

const (
	// Fitted against the gold standard, keep these exact.
	membershipBoost       = 4.0
	frequencyMultiplier   = 0.85
	frequencyBias         = -4.5
	lengthMultiplier      = -0.03
	lengthNeutral         = 6
	suffixWeight          = 0.0
	ambiguousThreshold    = 0.1
	nonAmbiguousThreshold = -80.0
)

// Weights holds the coefficients and cutoffs of the linear model.
type Weights struct {
	Membership            float64 `json:"membership" yaml:"membership"`
	FrequencyMultiplier   float64 `json:"frequency_multiplier" yaml:"frequencyMultiplier"`
	FrequencyBias         float64 `json:"frequency_bias" yaml:"frequencyBias"`
	LengthMultiplier      float64 `json:"length_multiplier" yaml:"lengthMultiplier"`
	LengthNeutral         int     `json:"length_neutral" yaml:"lengthNeutral"`
	Suffix                float64 `json:"suffix" yaml:"suffix"`
	AmbiguousThreshold    float64 `json:"ambiguous_threshold" yaml:"ambiguousThreshold"`
	NonAmbiguousThreshold float64 `json:"non_ambiguous_threshold" yaml:"nonAmbiguousThreshold"`
}

// DefaultWeights returns the reference weight set.
func DefaultWeights() Weights {
	return Weights{
		Membership:            membershipBoost,
		FrequencyMultiplier:   frequencyMultiplier,
		FrequencyBias:         frequencyBias,
		LengthMultiplier:      lengthMultiplier,
		LengthNeutral:         lengthNeutral,
		Suffix:                suffixWeight,
		AmbiguousThreshold:    ambiguousThreshold,
		NonAmbiguousThreshold: nonAmbiguousThreshold,
	}
}

// Terms is the per-signal contribution to a score.
type Terms struct {
	Membership float64 `json:"membership" yaml:"membership"`
	Frequency  float64 `json:"frequency" yaml:"frequency"`
	Length     float64 `json:"length" yaml:"length"`
	Suffix     float64 `json:"suffix" yaml:"suffix"`
}

// Sum adds the terms in formula order.
func (t Terms) Sum() float64 {
	return t.Membership + t.Frequency + t.Length + t.Suffix
}

// Terms computes each contribution for the given signals.
func (w Weights) Terms(s Signals) Terms {
	var t Terms
	if s.InCommonSet {
		t.Membership = w.Membership
	}
	t.Frequency = w.FrequencyMultiplier * (s.Frequency + w.FrequencyBias)
	t.Length = w.LengthMultiplier * float64(s.Length-w.LengthNeutral)
	// no suffix signal is defined yet, the term stays in the formula at zero
	t.Suffix = w.Suffix * s.Suffix
	return t
}

// Outcome maps a score onto the two cutoffs.
func (w Weights) Outcome(score float64) Outcome {
	switch {
	case score >= w.AmbiguousThreshold:
		return Ambiguous
	case score <= w.NonAmbiguousThreshold:
		return NonAmbiguous
	default:
		return Unresolved
	}
}
