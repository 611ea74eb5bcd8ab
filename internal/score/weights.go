package score

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// WeightTolerance is the allowed distance of the weight sum from 1.0.
const WeightTolerance = 0.01

// Errors returned by weight parsing and validation.
var (
	ErrInvalidWeight = errors.New("invalid weight")
	ErrWeightSum     = errors.New("weights must add up to 1.0")
)

// Weights is the caller-supplied importance of each category, indexed by Category.
type Weights [NumCategories]float64

// ParseWeights parses raw form values in Category order. An empty value counts as zero.
func ParseWeights(raw [NumCategories]string) (Weights, error) {
	var w Weights
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return Weights{}, fmt.Errorf("%w: %s=%q", ErrInvalidWeight, Category(i), s)
		}
		w[i] = v
	}
	return w, nil
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Validate checks that the weights sum to 1.0 within WeightTolerance.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > WeightTolerance {
		return fmt.Errorf("%w: got %.4f", ErrWeightSum, w.Sum())
	}
	return nil
}
