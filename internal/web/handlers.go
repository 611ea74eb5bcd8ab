package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/score"
	"github.com/UnknownOlympus/cityscore/internal/service"
)

// Form field names of the evaluation form, in score.Category order for the weights.
const (
	fieldCity        = "city"
	fieldCountryCode = "country_code"
	fieldCountry     = "country"
)

var weightFields = [score.NumCategories]string{
	"weight_cost", "weight_air", "weight_edu", "weight_safety", "weight_health",
}

var categoryLabels = [score.NumCategories]string{
	"Cost of living", "Air quality", "Education", "Safety", "Healthcare",
}

type scoreRow struct {
	Label   string
	Score   score.Score
	Weight  float64
	Details string
}

type resultPage struct {
	Error       string
	Result      *service.Result
	Country     string
	Rows        []scoreRow
	SummaryHTML template.HTML
}

type detailsPage struct {
	Error   string
	City    string
	Country string
	Cost    *service.CostReport
	Air     *service.AirReport
	Report  *service.IndicatorReport
	Safety  *models.SafetyDetail
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageIndex, nil)
}

// score renders domain failures as a message on the result page with status 200.
func (h *Handler) score(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, pageResult, resultPage{Error: "Invalid form submission."})
		return
	}

	form := service.ScoreForm{
		City:        r.PostFormValue(fieldCity),
		CountryCode: r.PostFormValue(fieldCountryCode),
	}
	for i, field := range weightFields {
		form.Weights[i] = r.PostFormValue(field)
	}

	result, err := h.svc.Score(r.Context(), form)
	if err != nil {
		h.render(w, r, http.StatusOK, pageResult, resultPage{Error: scoreMessage(err)})
		return
	}

	country := strings.TrimSpace(r.PostFormValue(fieldCountry))
	if country == "" {
		country = result.Country
	}

	page := resultPage{
		Result:  result,
		Country: country,
		Rows:    scoreRows(result),
	}
	if result.Summary != nil {
		// ExtractHTML is sanitized by the summary client.
		page.SummaryHTML = template.HTML(result.Summary.ExtractHTML)
	}

	h.render(w, r, http.StatusOK, pageResult, page)
}

func scoreRows(result *service.Result) []scoreRow {
	cityQuery := url.Values{"city": {result.City}, "country": {result.CountryCode}}.Encode()
	countryQuery := url.Values{"country": {result.CountryCode}}.Encode()

	details := [score.NumCategories]string{
		score.Cost:      "/details/cost?" + cityQuery,
		score.Air:       "/details/air?" + cityQuery,
		score.Education: "/details/education?" + countryQuery,
		score.Safety:    "/details/safety?" + countryQuery,
		score.Health:    "/details/health?" + countryQuery,
	}

	rows := make([]scoreRow, 0, score.NumCategories)
	for _, c := range score.Categories {
		rows = append(rows, scoreRow{
			Label:   categoryLabels[c],
			Score:   result.Scores[c],
			Weight:  result.Weights[c],
			Details: details[c],
		})
	}

	return rows
}

// scoreMessage maps an evaluation error to the message shown to the user.
func scoreMessage(err error) string {
	switch {
	case errors.Is(err, score.ErrInvalidWeight):
		return "Invalid weights entered."
	case errors.Is(err, score.ErrWeightSum):
		return "Weights must add up to exactly 1.0."
	case errors.Is(err, service.ErrValidation):
		return "Please provide both city and a 3-letter country code (e.g. DEU)."
	case errors.Is(err, service.ErrUnsupportedCountry):
		return "Unsupported country code."
	case errors.Is(err, service.ErrCityNotFound):
		return "Could not determine coordinates for this city."
	case errors.Is(err, service.ErrUpstreamData):
		return "Failed to load one or more required data points."
	default:
		return "Something went wrong, please try again later."
	}
}

func (h *Handler) costDetails(w http.ResponseWriter, r *http.Request) {
	city, code := r.URL.Query().Get("city"), r.URL.Query().Get("country")

	report, err := h.svc.CostDetails(r.Context(), city, code)
	if err != nil {
		h.detailsError(w, r, pageCost, detailsPage{City: city, Country: code}, err)
		return
	}

	h.render(w, r, http.StatusOK, pageCost, detailsPage{City: report.City, Country: report.Country, Cost: report})
}

func (h *Handler) airDetails(w http.ResponseWriter, r *http.Request) {
	city, country := r.URL.Query().Get("city"), r.URL.Query().Get("country")

	report, err := h.svc.AirDetails(r.Context(), city)
	if err != nil {
		h.detailsError(w, r, pageAir, detailsPage{City: city, Country: country}, err)
		return
	}

	h.render(w, r, http.StatusOK, pageAir, detailsPage{City: report.City, Country: country, Air: report})
}

func (h *Handler) educationDetails(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("country")

	report, err := h.svc.EducationDetails(r.Context(), code)
	if err != nil {
		h.detailsError(w, r, pageEducation, detailsPage{Country: code}, err)
		return
	}

	h.render(w, r, http.StatusOK, pageEducation, detailsPage{Country: report.Country, Report: report})
}

func (h *Handler) healthDetails(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("country")

	report, err := h.svc.HealthDetails(r.Context(), code)
	if err != nil {
		h.detailsError(w, r, pageHealth, detailsPage{Country: code}, err)
		return
	}

	h.render(w, r, http.StatusOK, pageHealth, detailsPage{Country: report.Country, Report: report})
}

func (h *Handler) safetyDetails(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")

	detail, err := h.svc.SafetyDetails(country)
	if err != nil {
		h.detailsError(w, r, pageSafety, detailsPage{Country: country}, err)
		return
	}

	h.render(w, r, http.StatusOK, pageSafety, detailsPage{Country: detail.Country, Safety: detail})
}

func (h *Handler) detailsError(w http.ResponseWriter, r *http.Request, page string, data detailsPage, err error) {
	status := http.StatusBadGateway
	data.Error = "The data for this page could not be loaded."

	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
		data.Error = "The request is missing a city or a valid country."
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		data.Error = "No data is available for this location."
	default:
		h.log.WarnContext(r.Context(), "Failed to load details", "page", page, "error", err)
	}

	h.render(w, r, status, page, data)
}
