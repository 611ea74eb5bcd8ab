package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const crimeFields = 2

// ErrCountryNotFound is returned when a country is missing from the crime table.
var ErrCountryNotFound = errors.New("country not found in crime table")

// CrimeRecord is one row of the crime table.
type CrimeRecord struct {
	Country string
	Index   float64
}

// CrimeTable is the per-country crime index reference data.
type CrimeTable struct {
	records []CrimeRecord
	byName  map[string]CrimeRecord
}

// LoadCrimeTable reads a semicolon separated file of `country;index` rows
// where the index uses a decimal comma, e.g. `Germany;3,12`.
func LoadCrimeTable(path string) (*CrimeTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open crime table: %w", err)
	}
	defer file.Close()

	return ParseCrimeTable(file)
}

// ParseCrimeTable decodes crime table rows from r.
func ParseCrimeTable(r io.Reader) (*CrimeTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = crimeFields
	reader.TrimLeadingSpace = true

	table := &CrimeTable{byName: make(map[string]CrimeRecord)}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read crime table row: %w", err)
		}

		country := strings.TrimSpace(row[0])
		raw := strings.ReplaceAll(strings.TrimSpace(row[1]), ",", ".")
		index, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid crime index for %q: %w", country, err)
		}

		record := CrimeRecord{Country: country, Index: index}
		table.records = append(table.records, record)
		key := strings.ToLower(country)
		if _, dup := table.byName[key]; !dup {
			table.byName[key] = record
		}
	}

	return table, nil
}

// Lookup finds a country by case-insensitive exact name match.
func (t *CrimeTable) Lookup(country string) (CrimeRecord, error) {
	record, ok := t.byName[strings.ToLower(strings.TrimSpace(country))]
	if !ok {
		return CrimeRecord{}, fmt.Errorf("%w: %s", ErrCountryNotFound, country)
	}
	return record, nil
}

// Len returns the number of rows in the table.
func (t *CrimeTable) Len() int {
	return len(t.records)
}
