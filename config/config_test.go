package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REFERENCE_DATE", "2024-01-01")
	t.Setenv("MAX_CONCURRENCY", "")
	t.Setenv("STORE_POSTGRES", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.ReferenceDate)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.False(t, cfg.StorePostgres)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Contains(t, cfg.DSN(), "sslmode=disable")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REFERENCE_DATE", "2023-06-15")
	t.Setenv("MAX_CONCURRENCY", "8")
	t.Setenv("STORE_POSTGRES", "true")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.True(t, cfg.StorePostgres)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2023, cfg.ReferenceDate.Year())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"reference date", "REFERENCE_DATE", "01/01/2024"},
		{"log level", "LOG_LEVEL", "loud"},
		{"concurrency", "MAX_CONCURRENCY", "0"},
		{"sslmode", "POSTGRES_SSLMODE", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REFERENCE_DATE", "2024-01-01")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDefaultRulesAreValid(t *testing.T) {
	rules := DefaultRules()
	require.NoError(t, rules.Validate())

	assert.Equal(t, 8, rules.Outliers.MinGroupSize)
	assert.Equal(t, 1.5, rules.Outliers.IQRMultiplier)
	assert.Equal(t, "awd", rules.Tables.Drivetrain["4x4"])
	assert.ElementsMatch(t, []string{"awd", "fwd", "rwd"}, rules.Tables.DrivetrainVocab)
}

func TestLoadRulesOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `
sanity:
  max_odometer: 350000
outliers:
  min_group_size: 12
tables:
  drivetrain:
    quatre roues: awd
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, 350000, rules.Sanity.MaxOdometer)
	assert.Equal(t, 250000, rules.Sanity.MaxPrice)
	assert.Equal(t, 12, rules.Outliers.MinGroupSize)
	assert.Equal(t, "awd", rules.Tables.Drivetrain["quatre roues"])
	assert.Equal(t, "awd", rules.Tables.Drivetrain["4wd"])
}

func TestLoadRulesRejectsIncoherentBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sanity:\n  max_price: 100\n"), 0o644))

	_, err := LoadRules(path)
	assert.Error(t, err)
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
