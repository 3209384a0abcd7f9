// Package datasettest provides small in-memory penguin tables for tests.
package datasettest

import "penguinlens/internal/dataset"

// Rec builds a record with placeholder measurements.
func Rec(species, island, sex string) dataset.Record {
	return dataset.Record{
		Species:         species,
		Island:          island,
		BillLengthMM:    40.1,
		BillDepthMM:     18.2,
		FlipperLengthMM: 190,
		BodyMassG:       3800,
		Sex:             sex,
	}
}

// sampleRecords are the usable rows of testdata/penguins_sample.csv in the
// source package, in file order.
var sampleRecords = []dataset.Record{
	{"Adelie", "Torgersen", 39.1, 18.7, 181, 3750, "Male"},
	{"Adelie", "Torgersen", 39.5, 17.4, 186, 3800, "Female"},
	{"Adelie", "Torgersen", 40.3, 18, 195, 3250, "Female"},
	{"Adelie", "Torgersen", 36.7, 19.3, 193, 3450, "Female"},
	{"Adelie", "Torgersen", 39.3, 20.6, 190, 3650, "Male"},
	{"Adelie", "Torgersen", 38.9, 17.8, 181, 3625, "Female"},
	{"Adelie", "Torgersen", 39.2, 19.6, 195, 4675, "Male"},
	{"Adelie", "Biscoe", 37.8, 18.3, 174, 3400, "Female"},
	{"Adelie", "Biscoe", 37.7, 18.7, 180, 3600, "Male"},
	{"Adelie", "Dream", 39.5, 16.7, 178, 3250, "Female"},
	{"Adelie", "Dream", 37.2, 18.1, 178, 3900, "Male"},
	{"Chinstrap", "Dream", 46.5, 17.9, 192, 3500, "Female"},
	{"Chinstrap", "Dream", 50, 19.5, 196, 3900, "Male"},
	{"Chinstrap", "Dream", 51.3, 19.2, 193, 3650, "Male"},
	{"Gentoo", "Biscoe", 46.1, 13.2, 211, 4500, "Female"},
	{"Gentoo", "Biscoe", 50, 16.3, 230, 5700, "Male"},
	{"Gentoo", "Biscoe", 48.7, 14.1, 210, 4450, "Female"},
}

// SampleRecords returns a copy of the 17 sample records: 11 Adelie,
// 3 Chinstrap, 3 Gentoo; 8 Male, 9 Female; 7 Torgersen, 5 Biscoe, 5 Dream.
func SampleRecords() []dataset.Record {
	return append([]dataset.Record(nil), sampleRecords...)
}

// Sample returns the sample dataset, with the 4 rows the CSV drops counted
// as excluded.
func Sample() *dataset.Dataset {
	return dataset.New(sampleRecords, 4)
}

// Scenario returns ten records: 6 Adelie and 4 Chinstrap, 5 Male and
// 5 Female overall, spread across two islands.
func Scenario() *dataset.Dataset {
	return dataset.New([]dataset.Record{
		Rec("Adelie", "Torgersen", "Male"),
		Rec("Chinstrap", "Dream", "Female"),
		Rec("Adelie", "Torgersen", "Female"),
		Rec("Adelie", "Dream", "Male"),
		Rec("Chinstrap", "Dream", "Male"),
		Rec("Adelie", "Torgersen", "Female"),
		Rec("Chinstrap", "Dream", "Female"),
		Rec("Adelie", "Dream", "Male"),
		Rec("Chinstrap", "Dream", "Male"),
		Rec("Adelie", "Torgersen", "Female"),
	}, 0)
}
