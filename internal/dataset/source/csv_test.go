package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penguinlens/internal/dataset"
)

const header = "species,island,bill_length_mm,bill_depth_mm,flipper_length_mm,body_mass_g,sex\n"

func TestReadCSV(t *testing.T) {
	t.Run("maps fields by header", func(t *testing.T) {
		rows, err := ReadCSV(strings.NewReader(header + "Adelie,Torgersen,39.1,18.7,181.0,3750.0,Male\n"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, dataset.RawRecord{
			"species":           "Adelie",
			"island":            "Torgersen",
			"bill_length_mm":    "39.1",
			"bill_depth_mm":     "18.7",
			"flipper_length_mm": "181.0",
			"body_mass_g":       "3750.0",
			"sex":               "Male",
		}, rows[0])
	})

	t.Run("normalizes header casing and BOM", func(t *testing.T) {
		in := "\ufeffSpecies, Island ,bill_length_mm,bill_depth_mm,flipper_length_mm,body_mass_g,SEX\nGentoo,Biscoe,1,2,3,4,Female\n"
		rows, err := ReadCSV(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, "Gentoo", rows[0]["species"])
		assert.Equal(t, "Biscoe", rows[0]["island"])
		assert.Equal(t, "Female", rows[0]["sex"])
	})

	t.Run("short rows leave columns absent", func(t *testing.T) {
		rows, err := ReadCSV(strings.NewReader(header + "Adelie,Dream\n"))
		require.NoError(t, err)
		_, ok := rows[0]["sex"]
		assert.False(t, ok)
	})

	t.Run("quoted values keep embedded commas", func(t *testing.T) {
		rows, err := ReadCSV(strings.NewReader(header + "\"Adelie, Sub\",Dream,1,2,3,4,Male\n"))
		require.NoError(t, err)
		assert.Equal(t, "Adelie, Sub", rows[0]["species"])
	})

	t.Run("missing columns are rejected", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("species,island\nAdelie,Dream\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bill_length_mm")
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))
		require.Error(t, err)
	})

	t.Run("broken quoting is a parse error", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(header + "\"Adelie,Dream,1,2,3,4,Male\n"))
		require.Error(t, err)
	})
}
