package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carvalu/config"
	"carvalu/models"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(config.DefaultRules().Tables)
}

func TestNormalizerDrivetrainSynonyms(t *testing.T) {
	n := newTestNormalizer()

	for _, raw := range []string{"4x4", "4X4", "4WD", "AWD", " awd ", "All Wheel Drive"} {
		got := n.Normalize([]models.RawListing{{Drivetrain: raw}})[0].Drivetrain
		assert.Equal(t, "awd", got, "drivetrain %q", raw)
	}
}

func TestNormalizerDrivetrainPassThrough(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{"FWD", "fwd"},
		{"2WD", "fwd"},
		{"RWD", "rwd"},
		{"Not Available", ""},
		{"Quatre Roues", "quatre roues"},
		{"", ""},
	}
	for _, tt := range tests {
		got := n.Normalize([]models.RawListing{{Drivetrain: tt.raw}})[0].Drivetrain
		assert.Equal(t, tt.want, got, "drivetrain %q", tt.raw)
	}
}

func TestNormalizerBodyType(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{"Sedan", "sedan"},
		{"Berline", "sedan"},
		{"Crew Cab", "truck"},
		{"Super Crew", "truck"},
		{"Pickup Truck", "truck"},
		{"Wagon", "station wagon"},
		{"Station Wagon", "station wagon"},
		{"Cargo Van", "minivan"},
		{"Minivan", "minivan"},
		{"Cabriolet", "convertible"},
		{"Roadster", "convertible"},
		{"Compact", "hatchback"},
		{"Limousine", "limousine"},
	}
	for _, tt := range tests {
		got := n.Normalize([]models.RawListing{{BodyType: tt.raw}})[0].BodyType
		assert.Equal(t, tt.want, got, "bodytype %q", tt.raw)
	}
}

func TestNormalizerModelCorrection(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name      string
		make      string
		model     string
		trim      string
		wantModel string
		wantTrim  string
	}{
		{"bmw trim in model", "BMW", "328i xDrive", "Sport Line", "3 series", "3 series-328i xdrive"},
		{"mercedes trim in model", "Mercedes-Benz", "C300", "", "c-class", "c-class-c300"},
		{"per-make model", "Chevrolet", "Silverado", "LT", "silverado 1500", "silverado 1500-lt"},
		{"french translation", "Kia", "Niro Hybride", "EX", "niro hybrid", "niro hybrid-ex"},
		{"mini coupe", "MINI", "Coupé", "S", "cooper 3 door", "cooper 3 door-s"},
		{"unmapped", "Honda", "Civic", "LX", "civic", "civic-lx"},
		{"missing trim", "Honda", "Civic", "", "civic", "civic-unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize([]models.RawListing{{Make: tt.make, Model: tt.model, Trim: tt.trim}})[0]
			assert.Equal(t, tt.wantModel, got.Model)
			assert.Equal(t, tt.wantTrim, got.Trim)
		})
	}
}

func TestNormalizerTrimHintsFillGaps(t *testing.T) {
	n := newTestNormalizer()

	got := n.Normalize([]models.RawListing{
		{Make: "BMW", Model: "X3", Trim: "xDrive30i", Drivetrain: "Not Available"},
		{Make: "Audi", Model: "A4", Trim: "Komfort quattro 6MT", Drivetrain: "FWD", Transmission: ""},
		{Make: "Honda", Model: "Civic", Trim: "Sport Hatchback", BodyType: "Sedan"},
	})

	assert.Equal(t, "awd", got[0].Drivetrain)
	assert.Equal(t, "fwd", got[1].Drivetrain, "present drivetrain must not be overwritten")
	assert.Equal(t, "manual", got[1].Transmission)
	assert.Equal(t, "sedan", got[2].BodyType, "present body type must not be overwritten")
}

func TestNormalizerIsIdempotent(t *testing.T) {
	n := newTestNormalizer()
	rows := []models.RawListing{
		{Make: "BMW", Model: "328i xDrive", Trim: "Sport Line | Navigation", BodyType: "Berline", Drivetrain: "4X4"},
		{Make: "Ford", Model: "F-150", Trim: "XLT, 4x4, loaded", BodyType: "Crew Cab", Drivetrain: "4WD"},
		{Make: "Mazda", Model: "MAZDA3", Trim: "GT w-Turbo", BodyType: "Hatchback", Province: "Quebec"},
		{Make: "Honda", Model: "Civic", Trim: "1 owner", BodyType: "Coupé"},
	}

	once := n.Normalize(rows)
	twice := n.Normalize(once)
	assert.Equal(t, once, twice)
}

func TestNormalizerDoesNotMutateInput(t *testing.T) {
	n := newTestNormalizer()
	rows := []models.RawListing{{Make: "HONDA", Drivetrain: "4X4"}}

	n.Normalize(rows)
	assert.Equal(t, "HONDA", rows[0].Make)
	assert.Equal(t, "4X4", rows[0].Drivetrain)
}

func TestTrimCleaner(t *testing.T) {
	tc := newTrimCleaner(config.DefaultRules().Tables)

	tests := []struct {
		make  string
		model string
		trim  string
		want  string
	}{
		{"honda", "civic", "lx w/ navigation", "lx"},
		{"honda", "civic", "ex-l, sunroof", "ex-l"},
		{"honda", "civic", "touring (1 owner)", "touring"},
		{"honda", "civic", "sport - low km", "sport"},
		{"honda", "civic", "civic-ex", "ex"},
		{"honda", "civic", "1 owner", UnknownTrim},
		{"honda", "civic", "sport heated seats", UnknownTrim},
		{"honda", "civic", "", UnknownTrim},
		{"honda", "civic", "black edition", "black edition"},
		{"honda", "civic", "si ac", UnknownTrim},
		{"mazda", "mazda3", "gt w-turbo", "gt turbo"},
		{"bmw", "x3", "m-sport m-sport", "m sport"},
		{"jeep", "wrangler", "sahara*", "sahara"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tc.Clean(tt.make, tt.model, tt.trim), "trim %q", tt.trim)
	}
}
