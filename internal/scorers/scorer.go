// Package scorers turns raw data from each category's source into a 0-100 score.
// Scorers never fail loudly: any upstream or lookup error is logged and reported
// as an absent score.
package scorers

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/score"
)

// Scorer produces the normalized score of one category for a location.
type Scorer interface {
	Category() score.Category
	NormalizedScore(ctx context.Context, loc models.Locator) score.Score
}

// Common errors for scorers.
var (
	ErrNoData         = errors.New("provider returned no usable data")
	ErrMissingLocator = errors.New("locator lacks the field required by the scorer")
)
