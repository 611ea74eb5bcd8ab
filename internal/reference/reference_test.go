package reference_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/cityscore/internal/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCountries(t *testing.T) {
	countries, err := reference.DefaultCountries()
	require.NoError(t, err)

	assert.Equal(t, 22, countries.Len())

	for _, code := range []string{"DEU", "deu", "Deu", " deu "} {
		name, ok := countries.Name(code)
		assert.True(t, ok, code)
		assert.Equal(t, "Germany", name, code)
	}

	_, ok := countries.Name("XXX")
	assert.False(t, ok)
}

func TestLoadCountries(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")

	t.Run("custom file", func(t *testing.T) {
		path := filepath.Join(dir, "countries.yaml")
		filet.File(t, path, "countries:\n  nzl: New Zealand\n")

		countries, err := reference.LoadCountries(path)
		require.NoError(t, err)

		name, ok := countries.Name("NZL")
		assert.True(t, ok)
		assert.Equal(t, "New Zealand", name)
		assert.Equal(t, 1, countries.Len())
	})

	t.Run("empty path selects built-in table", func(t *testing.T) {
		countries, err := reference.LoadCountries("")
		require.NoError(t, err)
		assert.Equal(t, 22, countries.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := reference.LoadCountries(filepath.Join(dir, "missing.yaml"))
		require.ErrorContains(t, err, "failed to read country table")
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := reference.ParseCountries([]byte("countries: {}\n"))
		require.ErrorIs(t, err, reference.ErrEmptyCountries)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := reference.ParseCountries([]byte("countries: [\n"))
		require.ErrorContains(t, err, "failed to decode country table")
	})
}

func TestParseCrimeTable(t *testing.T) {
	table, err := reference.ParseCrimeTable(strings.NewReader("Germany;3,5\n Colombia ; 7,47\nJapan;2\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	t.Run("case-insensitive exact match", func(t *testing.T) {
		for _, name := range []string{"germany", "GERMANY", "Germany"} {
			record, err := table.Lookup(name)
			require.NoError(t, err)
			assert.InDelta(t, 3.5, record.Index, 1e-9)
		}
	})

	t.Run("names are trimmed", func(t *testing.T) {
		record, err := table.Lookup("colombia")
		require.NoError(t, err)
		assert.Equal(t, "Colombia", record.Country)
		assert.InDelta(t, 7.47, record.Index, 1e-9)
	})

	t.Run("prefix does not match", func(t *testing.T) {
		_, err := table.Lookup("Germ")
		require.ErrorIs(t, err, reference.ErrCountryNotFound)
	})
}

func TestParseCrimeTable_Errors(t *testing.T) {
	_, err := reference.ParseCrimeTable(strings.NewReader("Germany;high\n"))
	require.ErrorContains(t, err, "invalid crime index")

	_, err = reference.ParseCrimeTable(strings.NewReader("Germany;3,5;extra\n"))
	require.ErrorContains(t, err, "failed to read crime table row")
}

func TestLoadCrimeTable(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "crime_data.csv")
	filet.File(t, path, "France;4,58\n")

	table, err := reference.LoadCrimeTable(path)
	require.NoError(t, err)

	record, err := table.Lookup("france")
	require.NoError(t, err)
	assert.InDelta(t, 4.58, record.Index, 1e-9)

	_, err = reference.LoadCrimeTable(filepath.Join(dir, "missing.csv"))
	require.ErrorContains(t, err, "failed to open crime table")
}
