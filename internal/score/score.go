// Package score holds the arithmetic core of the service: the optional score value,
// min/max normalization and the weighted aggregation of category scores.
package score

import (
	"fmt"
	"math"
)

// Score is a normalized value in [0,100] that may be absent.
// The zero value is absent, which is distinct from a present zero.
type Score struct {
	value   float64
	present bool
}

// Absent is the score of a data point that could not be obtained.
var Absent = Score{}

// Of returns a present score holding v.
func Of(v float64) Score {
	return Score{value: v, present: true}
}

// Get returns the value and whether it is present.
func (s Score) Get() (float64, bool) {
	return s.value, s.present
}

// Present reports whether the score holds a value.
func (s Score) Present() bool {
	return s.present
}

// Value returns the held value, or zero when absent.
func (s Score) Value() float64 {
	return s.value
}

func (s Score) String() string {
	if !s.present {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", s.value)
}

// Round2 rounds v to two decimals, sending exact halves to the even neighbour.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Normalize maps v linearly from the band [lo, hi] onto [0, 100], clamped.
func Normalize(v, lo, hi float64) float64 {
	return Clamp((v-lo)/(hi-lo)*100, 0, 100)
}

// NormalizeInverted maps v linearly from [lo, hi] onto [100, 0], clamped,
// so that lower raw values score higher.
func NormalizeInverted(v, lo, hi float64) float64 {
	return Clamp((hi-v)/(hi-lo)*100, 0, 100)
}

// Mean returns the rounded arithmetic mean of values, or Absent for an empty slice.
func Mean(values []float64) Score {
	if len(values) == 0 {
		return Absent
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Of(Round2(sum / float64(len(values))))
}
