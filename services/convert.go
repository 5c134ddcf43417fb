package services

import (
	"strings"

	"carvalu/config"
	"carvalu/models"
)

// Converter settles the final representation of derived fields: the manual
// transmission flag and a calendar-day fetch date.
type Converter struct {
	manual []string
}

// NewConverter creates a Converter using the manual transmission keywords in tables.
func NewConverter(tables config.MappingTables) *Converter {
	return &Converter{manual: tables.ManualTransmission}
}

// Convert returns a converted copy of the listings.
func (c *Converter) Convert(in []models.Listing) []models.Listing {
	out := make([]models.Listing, len(in))
	for i, l := range in {
		l.TransmissionManual = c.isManual(l.Transmission)
		if !l.FetchDate.IsZero() {
			l.FetchDate = truncateDay(l.FetchDate)
		}
		out[i] = l
	}
	return out
}

func (c *Converter) isManual(transmission string) bool {
	for _, kw := range c.manual {
		if strings.Contains(transmission, kw) {
			return true
		}
	}
	return false
}
