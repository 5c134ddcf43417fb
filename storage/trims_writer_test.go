package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"carvalu/models"
)

func TestWriteTrimCatalogue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trims", "trims.xlsx")
	entries := []models.TrimEntry{
		{Make: "Ford", Model: "F-150", Year: 2018, Trim: "F-150-XLT", BodyType: "Pickup Truck", Drivetrain: "4WD"},
		{Make: "Honda", Model: "CIVIC", Year: 2019, Trim: "CIVIC-LX", BodyType: "Sedan", Drivetrain: "FWD"},
	}

	require.NoError(t, WriteTrimCatalogue(path, entries))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TrimsSheet}, f.GetSheetList())

	rows, err := f.GetRows(TrimsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, trimHeaders, rows[0])
	assert.Equal(t, []string{"0", "Ford", "F-150", "2018", "F-150-XLT", "Pickup Truck", "4WD"}, rows[1])
	assert.Equal(t, []string{"1", "Honda", "CIVIC", "2019", "CIVIC-LX", "Sedan", "FWD"}, rows[2])
}

func TestWriteTrimCatalogueEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trims.xlsx")

	require.NoError(t, WriteTrimCatalogue(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(TrimsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, trimHeaders, rows[0])
}
