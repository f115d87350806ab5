package evaluation

import (
	"encoding/json"
	"fmt"
)

// Ratio is a metric that may be undefined because its denominator is zero.
type Ratio struct {
	Value   float64
	Defined bool
}

func newRatio(num, den int) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{Value: float64(num) / float64(den), Defined: true}
}

func (r Ratio) String() string {
	if !r.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", r.Value)
}

// MarshalJSON writes null for an undefined ratio.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// MarshalYAML writes null for an undefined ratio.
func (r Ratio) MarshalYAML() (any, error) {
	if !r.Defined {
		return nil, nil
	}
	return r.Value, nil
}
