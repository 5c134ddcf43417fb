package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carvalu/models"
)

func TestBuildTrimCatalogue(t *testing.T) {
	listings := []models.CleanListing{
		{Make: "mercedes-benz", Model: "c-class", Year: 2020, Trim: "c-class-c300", BodyType: "sedan", Drivetrain: "awd"},
		{Make: "honda", Model: "civic", Year: 2019, Trim: "civic-lx", BodyType: "sedan", Drivetrain: "fwd"},
		{Make: "honda", Model: "civic", Year: 2019, Trim: "civic-lx", BodyType: "sedan", Drivetrain: "fwd"},
		{Make: "honda", Model: "civic", Year: 2018, Trim: "civic-unknown", BodyType: "sedan", Drivetrain: "fwd"},
		{Make: "land rover", Model: "range rover", Year: 2021, Trim: "range rover-hse", BodyType: "station wagon", Drivetrain: "awd"},
	}

	got := BuildTrimCatalogue(listings)

	assert.Equal(t, []models.TrimEntry{
		{Make: "Honda", Model: "CIVIC", Year: 2019, Trim: "CIVIC-LX", BodyType: "Sedan", Drivetrain: "FWD"},
		{Make: "Land Rover", Model: "RANGE ROVER", Year: 2021, Trim: "RANGE ROVER-HSE", BodyType: "Station Wagon", Drivetrain: "AWD"},
		{Make: "Mercedes-Benz", Model: "C-CLASS", Year: 2020, Trim: "C-CLASS-C300", BodyType: "Sedan", Drivetrain: "AWD"},
	}, got)
}
