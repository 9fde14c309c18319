package stats

import (
	"encoding/json"
	"fmt"
)

// Ratio is a quotient that may be undefined when its denominator is zero,
// such as an aggression factor for a player with no passive actions. It
// avoids leaking float infinities into JSON output.
type Ratio struct {
	value   float64
	defined bool
}

// Finite returns a defined ratio.
func Finite(v float64) Ratio {
	return Ratio{value: v, defined: true}
}

// Undefined returns the undefined ratio sentinel.
func Undefined() Ratio {
	return Ratio{}
}

// IsDefined reports whether the ratio has a finite value.
func (r Ratio) IsDefined() bool { return r.defined }

// Value returns the finite value, or 0 when undefined.
func (r Ratio) Value() float64 {
	if !r.defined {
		return 0
	}
	return r.value
}

func (r Ratio) String() string {
	if !r.defined {
		return "-"
	}
	return fmt.Sprintf("%.2f", r.value)
}

// MarshalJSON encodes undefined ratios as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

// UnmarshalJSON decodes null as the undefined sentinel.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Finite(v)
	return nil
}
