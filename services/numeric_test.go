package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carvalu/models"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{"152,430 km", intPtr(152430)},
		{"152,430 KM", intPtr(152430)},
		{"$18,500", intPtr(18500)},
		{"$18,500.00", intPtr(18500)},
		{"18 500 $", intPtr(18500)},
		{"152.430 km", intPtr(152430)},
		{"0 km", intPtr(0)},
		{"", nil},
		{"Call for price", nil},
		{"99999999999999999999999", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseInt(tt.raw), "ParseInt(%q)", tt.raw)
	}
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, intPtr(2019), ParseYear("2019"))
	assert.Equal(t, intPtr(2019), ParseYear(" 2019.0 "))
	assert.Nil(t, ParseYear("2019.5"))
	assert.Nil(t, ParseYear("n/a"))
	assert.Nil(t, ParseYear("NaN"))
}

func TestParseFetchDate(t *testing.T) {
	want := time.Date(2023, 12, 2, 10, 15, 0, 0, time.UTC)

	assert.Equal(t, want, ParseFetchDate("2023-12-02 10:15:00"))
	assert.Equal(t, want, ParseFetchDate("2023-12-02T10:15:00Z"))
	assert.Equal(t, want, ParseFetchDate("2023-12-02 10:15:00.000000"))
	assert.Equal(t, time.Date(2023, 12, 2, 0, 0, 0, 0, time.UTC), ParseFetchDate("2023-12-02"))
	assert.True(t, ParseFetchDate("yesterday").IsZero())
	assert.True(t, ParseFetchDate("").IsZero())
}

func TestNumericExtractorMarksFailuresMissing(t *testing.T) {
	e := NewNumericExtractor()

	got := e.Extract([]models.RawListing{
		{Make: "honda", Odometer: "45,000 km", Price: "$21,000", Year: "2019", FetchDate: "2023-12-02"},
		{Make: "honda", Odometer: "unknown", Price: "", Year: "later", FetchDate: "soon"},
	})
	require.Len(t, got, 2)

	assert.Equal(t, "honda", got[0].Make)
	assert.Equal(t, 45000, *got[0].Odometer)
	assert.Equal(t, 21000, *got[0].Price)
	assert.Equal(t, 2019, *got[0].Year)

	assert.Nil(t, got[1].Odometer)
	assert.Nil(t, got[1].Price)
	assert.Nil(t, got[1].Year)
	assert.True(t, got[1].FetchDate.IsZero())
}
