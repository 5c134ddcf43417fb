package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carvalu/models"
)

func TestBuildInsertPlaceholdersAndArgs(t *testing.T) {
	a := sampleClean()
	b := sampleClean()
	b.URL = ""
	b.ID = "b2"

	query, args := buildInsert("run-1", []models.CleanListing{a, b})

	n := len(insertColumns)
	require.Len(t, args, 2*n)
	assert.Contains(t, query, "INSERT INTO listings ("+strings.Join(insertColumns, ", ")+")")
	assert.Contains(t, query, "($1,$2,")
	assert.Contains(t, query, "$32)")
	assert.Contains(t, query, "ON CONFLICT (url) DO UPDATE SET")
	assert.Contains(t, query, "price = EXCLUDED.price")
	assert.NotContains(t, query, "url = EXCLUDED.url")

	assert.Equal(t, "run-1", args[0])
	assert.Equal(t, "a1", args[1])
	assert.Equal(t, sql.NullString{String: a.URL, Valid: true}, args[2])
	assert.Equal(t, 20000, args[12])

	assert.Equal(t, "b2", args[n+1])
	assert.Equal(t, sql.NullString{}, args[n+2], "an empty url is stored as NULL")
}

func TestToRowRoundTripsFields(t *testing.T) {
	l := sampleClean()
	r := toRow("run-2", l)

	assert.Equal(t, "run-2", r.RunID)
	assert.Equal(t, l.ID, r.ListingID)
	assert.True(t, r.URL.Valid)
	assert.Equal(t, l.Trim, r.Trim)
	assert.Equal(t, l.TransmissionManual, r.TransmissionManual)
	assert.Equal(t, l.FetchDate, r.FetchDate)
	assert.Equal(t, l.CarAge, r.CarAge)
}

func TestTransientConnError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), true},
		{"starting up", &pq.Error{Code: "57P03"}, true},
		{"bad password", fmt.Errorf("ping: %w", &pq.Error{Code: "28P01"}), false},
		{"unknown database", &pq.Error{Code: "3D000"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transientConnError(tt.err))
		})
	}
}
