package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"carvalu/config"
	"carvalu/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTemporalDaysSinceReference(t *testing.T) {
	d := NewTemporalDeriver(date(2024, 1, 1))

	got := d.Derive([]models.Listing{
		{FetchDate: date(2023, 12, 2), Year: intPtr(2020)},
		{FetchDate: time.Date(2023, 12, 2, 23, 59, 0, 0, time.UTC), Year: intPtr(2020)},
		{FetchDate: date(2024, 1, 1), Year: intPtr(2020)},
		{FetchDate: date(2024, 1, 5), Year: intPtr(2020)},
	})

	assert.Equal(t, 30, got[0].DaysSinceReference)
	assert.Equal(t, 30, got[1].DaysSinceReference, "time of day must not shift the day count")
	assert.Equal(t, 0, got[2].DaysSinceReference)
	assert.Equal(t, -4, got[3].DaysSinceReference)
}

func TestTemporalCarAge(t *testing.T) {
	d := NewTemporalDeriver(date(2024, 1, 1))

	got := d.Derive([]models.Listing{
		{FetchDate: date(2023, 12, 2), Year: intPtr(2023)},
		{FetchDate: date(2023, 12, 2), Year: intPtr(2024)},
		{FetchDate: date(2023, 12, 2), Year: nil},
	})

	assert.InDelta(t, 335/365.25, got[0].CarAge, 1e-9)
	assert.Less(t, got[1].CarAge, 0.0)
	assert.Equal(t, 0.0, got[2].CarAge)
}

func TestConverterTransmissionAndDay(t *testing.T) {
	c := NewConverter(config.DefaultRules().Tables)

	got := c.Convert([]models.Listing{
		{Transmission: "6-speed manual", FetchDate: time.Date(2023, 12, 2, 17, 30, 0, 0, time.UTC)},
		{Transmission: "manuelle"},
		{Transmission: "automatic"},
		{Transmission: ""},
	})

	assert.True(t, got[0].TransmissionManual)
	assert.Equal(t, date(2023, 12, 2), got[0].FetchDate)
	assert.True(t, got[1].TransmissionManual)
	assert.False(t, got[2].TransmissionManual)
	assert.False(t, got[3].TransmissionManual)
	assert.True(t, got[1].FetchDate.IsZero())
}
