package scorers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/reference"
	"github.com/UnknownOlympus/cityscore/internal/score"
)

// Crime index band observed in the reference table; lower is safer.
const (
	crimeIndexMin = 2
	crimeIndexMax = 8
)

// ErrCrimeTableUnavailable is returned when the crime table could not be loaded at startup.
var ErrCrimeTableUnavailable = errors.New("crime table is unavailable")

// SafetyScorer scores safety from the static crime index table.
type SafetyScorer struct {
	table *reference.CrimeTable
	log   *slog.Logger
}

// NewSafetyScorer creates a safety scorer. A nil table makes every lookup absent.
func NewSafetyScorer(table *reference.CrimeTable, log *slog.Logger) *SafetyScorer {
	return &SafetyScorer{table: table, log: log}
}

// Category implements Scorer.
func (s *SafetyScorer) Category() score.Category {
	return score.Safety
}

// NormalizedScore looks the country name up in the crime table.
func (s *SafetyScorer) NormalizedScore(ctx context.Context, loc models.Locator) score.Score {
	detail, err := s.Details(loc.Country)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to score safety", "country", loc.Country, "error", err)
		return score.Absent
	}

	return score.Of(detail.Score)
}

// Details returns the raw crime index and the derived safety score for a country name.
func (s *SafetyScorer) Details(country string) (*models.SafetyDetail, error) {
	if s.table == nil {
		return nil, ErrCrimeTableUnavailable
	}

	record, err := s.table.Lookup(country)
	if err != nil {
		return nil, err
	}

	return &models.SafetyDetail{
		Country:    record.Country,
		CrimeIndex: record.Index,
		Score:      NormalizeCrime(record.Index),
	}, nil
}

// NormalizeCrime maps a crime index onto a safety score, inverted and clamped to [0,100].
func NormalizeCrime(index float64) float64 {
	return score.Round2(score.NormalizeInverted(index, crimeIndexMin, crimeIndexMax))
}
