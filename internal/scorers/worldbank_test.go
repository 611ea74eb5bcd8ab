package scorers_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/score"
	"github.com/UnknownOlympus/cityscore/internal/scorers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func worldBankPage(values ...string) string {
	observations := make([]string, 0, len(values))
	for i, v := range values {
		observations = append(observations, fmt.Sprintf(`{"date":"%d","value":%s}`, 2023-i, v))
	}
	return `[{"page":1,"pages":1,"per_page":5,"total":5},[` + strings.Join(observations, ",") + `]]`
}

// worldBankClient answers each indicator code with the configured body, or an empty page.
func worldBankClient(t *testing.T, bodies map[string]string) *mockHTTPClient {
	t.Helper()
	return &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "json", req.URL.Query().Get("format"))
			assert.Equal(t, "5", req.URL.Query().Get("mrv"))
			assert.Contains(t, req.URL.Path, "/v2/country/deu/indicator/")
			code := req.URL.Path[strings.LastIndex(req.URL.Path, "/")+1:]
			body, ok := bodies[code]
			if !ok {
				body = worldBankPage()
			}
			return jsonResponse(http.StatusOK, body), nil
		},
	}
}

func TestHealthScorer(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	germany := models.Locator{CountryCode: "DEU"}

	t.Run("averages indicators with values", func(t *testing.T) {
		client := worldBankClient(t, map[string]string{
			"SP.DYN.LE00.IN": worldBankPage("null", "78"), // latest non-null: 78 -> 80
			"SH.DYN.MORT":    worldBankPage("3.5"),        // inverted -> 96.5
			"SH.MED.PHYS.ZS": `[{"message":[{"id":"120","value":"Invalid value"}]}]`,
		})
		scorer := scorers.NewHealthScorer(client, logger, nil)

		got := scorer.NormalizedScore(ctx, germany)

		assert.Equal(t, score.Health, scorer.Category())
		assert.Equal(t, score.Of(88.25), got)
	})

	t.Run("details keep indicators without values", func(t *testing.T) {
		client := worldBankClient(t, map[string]string{
			"SP.DYN.LE00.IN": worldBankPage("81"),
		})
		scorer := scorers.NewHealthScorer(client, logger, nil)

		details, err := scorer.Details(ctx, "DEU")

		require.NoError(t, err)
		require.Len(t, details, len(scorers.HealthIndicators))
		assert.Equal(t, "SP.DYN.LE00.IN", details[0].Code)
		require.NotNil(t, details[0].Value)
		assert.InDelta(t, 81.0, *details[0].Value, 1e-9)
		assert.Equal(t, "2023", details[0].Year)
		assert.InDelta(t, 88.57, *details[0].Normalized, 1e-9)
		assert.Nil(t, details[1].Value)
		assert.Nil(t, details[1].Normalized)
	})

	t.Run("no indicator values is absent", func(t *testing.T) {
		scorer := scorers.NewHealthScorer(worldBankClient(t, nil), logger, nil)

		assert.False(t, scorer.NormalizedScore(ctx, germany).Present())
	})

	t.Run("provider errors are absent", func(t *testing.T) {
		scorer := scorers.NewHealthScorer(staticClient(http.StatusInternalServerError, ``), logger, nil)

		assert.False(t, scorer.NormalizedScore(ctx, germany).Present())
	})

	t.Run("invalid country code", func(t *testing.T) {
		scorer := scorers.NewHealthScorer(&mockHTTPClient{}, logger, nil)

		_, err := scorer.Details(ctx, "DE")

		require.ErrorIs(t, err, scorers.ErrMissingLocator)
	})
}

func TestEducationScorer(t *testing.T) {
	client := worldBankClient(t, map[string]string{
		"SE.TER.ENRR":       worldBankPage("70"),  // -> 70
		"SE.XPD.TOTL.GD.ZS": worldBankPage("4.6"), // -> 57.5
		"SE.PRM.ENRR":       worldBankPage("104"), // clamped -> 100
	})
	scorer := scorers.NewEducationScorer(client, slog.Default(), nil)

	got := scorer.NormalizedScore(context.Background(), models.Locator{CountryCode: "deu"})

	assert.Equal(t, score.Education, scorer.Category())
	assert.Equal(t, score.Of(75.83), got)
}
