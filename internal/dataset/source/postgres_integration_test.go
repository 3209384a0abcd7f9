//go:build integration

package source_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"penguinlens/internal/dataset"
	"penguinlens/internal/dataset/source"
	"penguinlens/pkg/testutil/containers"
)

type PostgresSourceSuite struct {
	suite.Suite
	pg *containers.PostgresContainer
}

func TestPostgresSourceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSourceSuite))
}

func (s *PostgresSourceSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	_, err := s.pg.DB.Exec(`
		CREATE TABLE penguins (
			id                SERIAL PRIMARY KEY,
			species           TEXT,
			island            TEXT,
			bill_length_mm    DOUBLE PRECISION,
			bill_depth_mm     DOUBLE PRECISION,
			flipper_length_mm DOUBLE PRECISION,
			body_mass_g       DOUBLE PRECISION,
			sex               TEXT
		);
		INSERT INTO penguins (species, island, bill_length_mm, bill_depth_mm, flipper_length_mm, body_mass_g, sex) VALUES
			('Gentoo', 'Biscoe', 46.1, 13.2, 211, 4500, 'Female'),
			('Adelie', 'Torgersen', NULL, NULL, NULL, NULL, NULL),
			('Adelie', 'Torgersen', 39.1, 18.7, 181, 3750, 'Male'),
			('Chinstrap', 'Dream', 46.5, 17.9, 192, 3500, NULL);
	`)
	s.Require().NoError(err)
}

func (s *PostgresSourceSuite) TestFetchRawReadsRowsInIDOrder() {
	src := source.NewPostgres(s.pg.DB, "penguins")

	raw, err := src.FetchRaw(context.Background())
	s.Require().NoError(err)
	s.Require().Len(raw, 4)
	s.Equal("Gentoo", raw[0][dataset.ColSpecies])
	s.Equal("46.1", raw[0][dataset.ColBillLengthMM])

	_, ok := raw[1][dataset.ColBillLengthMM]
	s.False(ok, "NULL should surface as an absent field")

	ds, report := dataset.Clean(raw)
	s.Equal(2, ds.Len())
	s.Equal(2, report.Excluded)
	s.Equal([]string{"Gentoo", "Adelie"}, ds.Species())
}

func (s *PostgresSourceSuite) TestMissingTableErrors() {
	_, err := source.NewPostgres(s.pg.DB, "no_such_table").FetchRaw(context.Background())
	s.Require().Error(err)
}
