package split

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ratio is a three-way train/val/test proportion. Components must be
// non-negative and sum to 1.0 after rounding to two decimal places.
type Ratio struct {
	Train float64 `json:"train"`
	Val   float64 `json:"val"`
	Test  float64 `json:"test"`
}

// DefaultRatio is the conventional 70/20/10 split.
var DefaultRatio = Ratio{Train: 0.7, Val: 0.2, Test: 0.1}

// ParseRatio parses a "train,val,test" string such as "0.8,0.1,0.1"
// and validates it.
func ParseRatio(s string) (Ratio, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Ratio{}, fmt.Errorf("ratio %q: want three comma-separated values", s)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Ratio{}, fmt.Errorf("ratio %q: %w", s, err)
		}
		vals[i] = v
	}
	r := Ratio{Train: vals[0], Val: vals[1], Test: vals[2]}
	if err := r.Validate(); err != nil {
		return Ratio{}, err
	}
	return r, nil
}

// Validate checks component bounds and the sum-to-1.0 invariant.
func (r Ratio) Validate() error {
	if r.Train < 0 || r.Val < 0 || r.Test < 0 {
		return fmt.Errorf("ratio %s: components must be non-negative", r)
	}
	if math.Round((r.Train+r.Val+r.Test)*100)/100 != 1.0 {
		return fmt.Errorf("ratio %s: components must sum to 1.0", r)
	}
	return nil
}

func (r Ratio) String() string {
	return fmt.Sprintf("%g,%g,%g", r.Train, r.Val, r.Test)
}
