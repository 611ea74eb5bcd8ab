// Package reference loads the static lookup tables the scorers rely on:
// the supported country codes and the per-country crime index.
// Tables are loaded once at startup and are read-only afterwards.
package reference

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var defaultCountries []byte

// ErrEmptyCountries is returned when a country table defines no entries.
var ErrEmptyCountries = errors.New("country table is empty")

// Countries maps ISO3 alpha codes to country display names.
type Countries struct {
	byCode map[string]string
}

type countriesDocument struct {
	Countries map[string]string `yaml:"countries"`
}

// DefaultCountries returns the built-in country table.
func DefaultCountries() (*Countries, error) {
	return ParseCountries(defaultCountries)
}

// LoadCountries reads a country table from a YAML file. An empty path selects the built-in table.
func LoadCountries(path string) (*Countries, error) {
	if path == "" {
		return DefaultCountries()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read country table: %w", err)
	}

	return ParseCountries(data)
}

// ParseCountries decodes a YAML country table of the form `countries: {CODE: Name}`.
func ParseCountries(data []byte) (*Countries, error) {
	var doc countriesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode country table: %w", err)
	}
	if len(doc.Countries) == 0 {
		return nil, ErrEmptyCountries
	}

	byCode := make(map[string]string, len(doc.Countries))
	for code, name := range doc.Countries {
		byCode[strings.ToUpper(strings.TrimSpace(code))] = strings.TrimSpace(name)
	}

	return &Countries{byCode: byCode}, nil
}

// Name returns the display name for an ISO3 code, ignoring case.
func (c *Countries) Name(code string) (string, bool) {
	name, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// Len returns the number of known codes.
func (c *Countries) Len() int {
	return len(c.byCode)
}
